// Package jsonrpc exposes the engine over a JSON-RPC 2.0 HTTP
// endpoint.
package jsonrpc

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Server serves JSON-RPC requests over HTTP POST.
type Server struct {
	handler *Handler
}

// NewServer wraps a handler.
func NewServer(handler *Handler) *Server {
	return &Server{handler: handler}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, &Error{Code: codeParseError, Message: "parse error"})
		return
	}
	if req.Method == "" {
		writeError(w, req.ID, &Error{Code: codeInvalidRequest, Message: "missing method"})
		return
	}

	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) {
			writeError(w, req.ID, &Error{Code: rpcErr.code, Message: rpcErr.message})
			return
		}
		writeError(w, req.ID, &Error{Code: codeInternalError, Message: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"result":  result,
		"id":      req.ID,
	})
}

func writeError(w http.ResponseWriter, id interface{}, rpcErr *Error) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"error":   rpcErr,
		"id":      id,
	})
}
