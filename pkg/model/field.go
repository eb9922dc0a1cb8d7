// pkg/model/field.go
package model

// Field is a text cell that distinguishes a present value from an absent
// one. An empty source cell is absent, never an empty string.
type Field struct {
	value   string
	present bool
}

// NewField creates a present field holding value.
func NewField(value string) Field {
	return Field{value: value, present: true}
}

// AbsentField returns the explicit "no value" marker.
func AbsentField() Field {
	return Field{}
}

// Present reports whether the field holds a value.
func (f Field) Present() bool {
	return f.present
}

// Value returns the held value, or "" for an absent field.
func (f Field) Value() string {
	return f.value
}

// Or returns the held value, or fallback for an absent field.
func (f Field) Or(fallback string) string {
	if f.present {
		return f.value
	}
	return fallback
}
