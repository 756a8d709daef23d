package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyBytes caps request bodies well above the largest document payload.
const maxBodyBytes = 8 << 20

// ParseJSON decodes a JSON request body into dst, rejecting unknown fields
// and oversized bodies.
func ParseJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	// A second decode catches trailing garbage after the JSON value.
	if dec.More() {
		return fmt.Errorf("invalid request body: unexpected trailing data")
	}

	return nil
}
