// Package httpx holds the request/response plumbing shared by the API
// handlers: CORS, lenient body decoding and JSON error envelopes.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/phuslu/log"

	"github.com/humblehuman369/dealscope-sub001/pkg/core/utils"
	"github.com/humblehuman369/dealscope-sub001/pkg/core/validate"
)

// SessionHeader identifies the caller's session for the per-session gate and
// for snapshot history.
const SessionHeader = "X-Session-ID"

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string                `json:"error"`
	Fields []validate.FieldError `json:"fields,omitempty"`
}

// CORS sets the headers for local dev. It returns true when r was a
// preflight request and has been answered.
func CORS(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// AllowMethod answers 405 unless r uses method.
func AllowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// Decode reads the body into v. Bodies that are not strict JSON are retried
// as repaired JSON and then Hjson.
func Decode(r *http.Request, v interface{}) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > MaxBodyBytes {
		return fmt.Errorf("body exceeds %d bytes", MaxBodyBytes)
	}
	method, err := utils.SmartParse(data, v)
	if err != nil {
		return err
	}
	if method != utils.MethodJSON {
		log.Debug().Str("path", r.URL.Path).Str("method", string(method)).Msg("Decoded non-strict body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteInvalid answers 400, listing field errors when err carries them.
func WriteInvalid(w http.ResponseWriter, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input", Fields: verr.Fields})
		return
	}
	WriteError(w, http.StatusBadRequest, err.Error())
}
