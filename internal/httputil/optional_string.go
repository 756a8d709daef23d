package httputil

import "encoding/json"

// OptionalString distinguishes an absent JSON field from an explicit null,
// which a bare *string cannot do (RFC 7396 merge-patch semantics):
//   - Present=false: field absent, leave the column alone
//   - Present=true, Value=nil: field was null, clear the column
//   - Present=true, Value=&s: field carried a string (possibly empty)
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only invoked when the field exists in the document, so
// reaching here at all means Present. A JSON null decodes into a nil pointer.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	return json.Unmarshal(data, &o.Value)
}
