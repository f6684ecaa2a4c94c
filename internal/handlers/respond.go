package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// apiResponse is the one canonical envelope shared by every endpoint.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Token   string      `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Message: message, Data: data})
}

func writeList(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data, Count: &count})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Message: message})
}

// idParam parses the {id} URL parameter; writes a 400 and returns false when it
// is not a durable integer id.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

type requiredField struct {
	name  string
	value string
}

// firstMissing returns the name of the first empty required field, or "".
func firstMissing(fields ...requiredField) string {
	for _, f := range fields {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}

// rowScanner lets the same scan helper work for sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// nullIfEmpty maps "" to SQL NULL for optional columns (DATE columns reject '').
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
