package rpcServer

import (
	"net/http"
)

type HealthCheckResponse struct {
	Status string `json:"status"`
}

func (rpc *RpcServer) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &HealthCheckResponse{Status: "SERVING"})
}
