package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent JSON field from an explicit null,
// which *string alone cannot do:
//   - Present=false: field absent (keep current value)
//   - Present=true, Value=nil: field is null
//   - Present=true, Value=&s: field is the string s
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only invoked when the field is present
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// IsNull reports an explicit JSON null
func (o OptionalString) IsNull() bool {
	return o.Present && o.Value == nil
}
