package rpcServer

import (
	"encoding/json"
	"net/http"

	"github.com/MainbaseT/sol2uml/pkg/sourceMerger"
	"github.com/MainbaseT/sol2uml/pkg/sourcecode"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestId string      `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// statusForKind maps a sourcecode.Kind to the HTTP status returned to API clients.
func statusForKind(kind string) int {
	switch kind {
	case "invalid_address":
		return http.StatusBadRequest
	case "unverified", "file_not_found":
		return http.StatusNotFound
	case "transport", "unexpected_response_shape", "malformed_source_code":
		return http.StatusBadGateway
	case "no_http_response":
		return http.StatusGatewayTimeout
	case "parse_error":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (rpc *RpcServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := sourcecode.Kind(err)
	var pe *sourceMerger.ParseError
	if errors.As(err, &pe) {
		kind = "parse_error"
	}
	status := statusForKind(kind)

	if status >= http.StatusInternalServerError {
		rpc.Logger.Sugar().Errorw("Request failed",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("requestId", getRequestId(r.Context())),
		)
	}

	writeJSON(w, status, &ErrorResponse{
		Error: ErrorDetail{
			Code:    kind,
			Message: err.Error(),
		},
		RequestId: getRequestId(r.Context()),
	})
}
