package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the body of every JSON response.
type envelope struct {
	Data  any       `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Status  int      `json:"status"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.WarnContext(r.Context(), "write response failed", "error", err)
	}
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, r, status, envelope{Data: data})
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, code, message string, details []string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(w, r, status, envelope{Error: &apiError{
		Status:  status,
		Code:    code,
		Message: message,
		Errors:  details,
	}})
}
