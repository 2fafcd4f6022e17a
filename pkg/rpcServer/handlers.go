package rpcServer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (rpc *RpcServer) GetSourceCode(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	filename := r.URL.Query().Get("filename")

	result, err := rpc.fetcher.FetchSourceCode(r.Context(), address, filename)
	if err != nil {
		rpc.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rpc *RpcServer) GetFlattenedSourceCode(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	filename := r.URL.Query().Get("filename")

	result, err := rpc.fetcher.FetchSourceCode(r.Context(), address, filename)
	if err != nil {
		rpc.writeError(w, r, err)
		return
	}

	merged, err := rpc.merger.MergeSourceCode(result)
	if err != nil {
		rpc.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}
