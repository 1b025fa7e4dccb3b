package server

import (
	"encoding/json"
	"net/http"

	"github.com/helpsek/helpsek/internal/errors"
)

// askRequest is the POST /ask payload.
type askRequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}

// errorResponse mirrors the original service's error body.
type errorResponse struct {
	Error string `json:"error"`
	Trace string `json:"trace,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be JSON"})
		return
	}

	result, err := s.svc.Ask(r.Context(), req.Question, req.K)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"service": ServiceName,
	})
}

// contactInfo is the static BKN helpdesk payload.
var contactInfo = map[string]any{
	"instansi": "Badan Kepegawaian Negara (BKN)",
	"layanan":  "Helpdesk SSCASN",
	"website":  "https://sscasn.bkn.go.id",
	"email":    "helpdesk@bkn.go.id",
	"telepon":  "021-8093008",
}

func (s *Server) handleContact(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, contactInfo)
}

// writeError maps a service error to a status code. Validation errors
// are the client's fault; everything else is a 500 with the cause in
// the trace field.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.GetCategory(err) == errors.CategoryValidation {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.log.Error("request failed", "error", err, "code", errors.GetCode(err))

	resp := errorResponse{Error: err.Error()}
	if se, ok := err.(*errors.ServiceError); ok && se.Cause != nil {
		resp.Trace = se.Cause.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
