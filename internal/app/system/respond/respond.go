// Package respond writes and reads the JSON bodies of the API.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned by Decode when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// ErrTrailingData is returned by Decode when anything but whitespace
// follows the first JSON value.
var ErrTrailingData = errors.New("request body has data after the JSON object")

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes {"success":true, ...fields} with status 200.
func Success(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, http.StatusOK, body)
}

// Failure writes {"success":false,"message":msg} and, when present, the
// list of field-level messages under "errors".
func Failure(w http.ResponseWriter, status int, msg string, details []string) {
	body := map[string]any{"success": false, "message": msg}
	if len(details) > 0 {
		body["errors"] = details
	}
	JSON(w, status, body)
}

// Decode reads a single JSON object from the request body into dst.
// Unknown fields are ignored; a second value after the first is rejected.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("decode json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}
