package lead

import (
	"errors"
	"strings"
)

// Kind names the validation rule a submission broke.
type Kind string

const (
	KindInvalidEmail  Kind = "InvalidEmail"
	KindEmptyName     Kind = "EmptyName"
	KindNameTooLong   Kind = "NameTooLong"
	KindEmptyCourses  Kind = "EmptyCourses"
	KindUnknownCourse Kind = "UnknownCourse"
)

// ErrMalformedBody means the request body was not a JSON object at all.
var ErrMalformedBody = errors.New("malformed request body")

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every rule a submission failed.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid lead: " + strings.Join(msgs, "; ")
}

// Has reports whether any collected error is of kind k.
func (v ValidationErrors) Has(k Kind) bool {
	for _, e := range v {
		if e.Kind == k {
			return true
		}
	}
	return false
}

func (v ValidationErrors) hasField(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}
