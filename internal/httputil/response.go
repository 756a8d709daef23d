package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code. The payload
// is marshaled before any headers go out so an encoding failure can still
// become a clean 500 instead of a truncated body.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// ProblemDetail is an RFC 7807 Problem Details error body. Extra fields are
// flattened into the top-level object when marshaled.
type ProblemDetail struct {
	Type   string
	Title  string
	Status int
	Detail string
	Extra  map[string]interface{}
}

// MarshalJSON flattens Extra into the problem object itself, as RFC 7807
// extension members.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		body["detail"] = p.Detail
	}
	for k, v := range p.Extra {
		body[k] = v
	}
	return json.Marshal(body)
}

// RespondError writes an RFC 7807 Problem Details error response
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondErrorWithExtras(w, status, detail, nil)
}

// RespondErrorWithExtras writes an RFC 7807 error with extension members
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]interface{}) {
	payload, err := json.Marshal(ProblemDetail{
		Type:   problemType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Extra:  extras,
	})
	if err != nil {
		// Last resort: plain text, since the problem body itself won't encode
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	w.Write(payload)
}

var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1",
	http.StatusUnauthorized:        "https://datatracker.ietf.org/doc/html/rfc7235#section-3.1",
	http.StatusForbidden:           "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3",
	http.StatusNotFound:            "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4",
	http.StatusConflict:            "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8",
	http.StatusInternalServerError: "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1",
}

func problemType(status int) string {
	if t, ok := problemTypes[status]; ok {
		return t
	}
	return "about:blank"
}
