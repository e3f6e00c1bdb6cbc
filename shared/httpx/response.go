package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBodyBytes bounds request bodies that do not set their own limit.
const DefaultMaxBodyBytes int64 = 10 << 20

var ErrEmptyBody = errors.New("request body is empty")

// ErrorResponse is the envelope every service uses for failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a {success:false,error} envelope.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Success: false, Error: msg})
}

// WriteErrorDetails writes a {success:false,error,details} envelope.
func WriteErrorDetails(w http.ResponseWriter, status int, msg, details string) {
	WriteJSON(w, status, ErrorResponse{Success: false, Error: msg, Details: details})
}

// DecodeJSON decodes the request body into dst, rejecting bodies above maxBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}

		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}

		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}
