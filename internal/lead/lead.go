// Package lead holds the lead submission model, its validation rules and the
// codec that turns a validated lead into a persisted record.
package lead

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"leadapi/internal/sanitize"
)

const (
	maxEmailLen = 320
	maxNameLen  = 255
)

// Submission is the raw inbound body of POST /ingest.
type Submission struct {
	Email   string   `json:"email" validate:"required,email,max=320"`
	Name    string   `json:"name" validate:"required,max=255"`
	Courses []Course `json:"courses" validate:"required,min=1"`
}

// Lead is a submission that passed every rule. Name is trimmed and Courses
// holds no duplicates.
type Lead struct {
	Email   string
	Name    string
	Courses []Course
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Parse decodes a JSON submission from r and validates it. Decoding failures
// that identify a field (an unknown course, a wrong JSON type) are reported as
// ValidationErrors; anything else wraps ErrMalformedBody.
func Parse(r io.Reader) (Lead, error) {
	var sub Submission
	if err := json.NewDecoder(r).Decode(&sub); err != nil {
		return Lead{}, decodeError(err)
	}
	return Validate(sub)
}

func decodeError(err error) error {
	var unknown *UnknownCourseError
	if errors.As(err, &unknown) {
		return ValidationErrors{{
			Field:   "courses",
			Kind:    KindUnknownCourse,
			Message: fmt.Sprintf("courses must only contain %s; got %s", catalogList(), unknown.Value),
		}}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := strings.SplitN(typeErr.Field, ".", 2)[0]
		switch field {
		case "email":
			return ValidationErrors{{Field: field, Kind: KindInvalidEmail, Message: "email must be a string"}}
		case "name":
			return ValidationErrors{{Field: field, Kind: KindEmptyName, Message: "name must be a string"}}
		case "courses":
			return ValidationErrors{{Field: field, Kind: KindEmptyCourses, Message: "courses must be an array of strings"}}
		}
	}

	return fmt.Errorf("%w: %w", ErrMalformedBody, err)
}

// Validate enforces the submission rules. Every failing rule is reported; a
// submission with any failure yields no Lead.
func Validate(sub Submission) (Lead, error) {
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Name = strings.TrimSpace(sub.Name)

	var errs ValidationErrors
	if err := validate.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Lead{}, err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, toFieldError(fe))
		}
	}
	errs = append(errs, storedFormErrors(sub, errs)...)
	for _, c := range sub.Courses {
		if !c.Valid() {
			errs = append(errs, FieldError{
				Field:   "courses",
				Kind:    KindUnknownCourse,
				Message: fmt.Sprintf("courses must only contain %s; got %q", catalogList(), string(c)),
			})
			break
		}
	}
	if len(errs) > 0 {
		return Lead{}, errs
	}

	return Lead{
		Email:   sub.Email,
		Name:    sub.Name,
		Courses: dedupe(sub.Courses),
	}, nil
}

// storedFormErrors applies the length and emptiness rules to the sanitized
// values that are actually persisted. Sanitizing may prefix an apostrophe or
// drop control characters, so raw input within bounds can still end up empty
// or over the column limit. Fields already reported are skipped.
func storedFormErrors(sub Submission, reported ValidationErrors) ValidationErrors {
	var errs ValidationErrors
	if !reported.hasField("email") {
		if utf8.RuneCountInString(sanitize.Cell(sub.Email)) > maxEmailLen {
			errs = append(errs, FieldError{
				Field:   "email",
				Kind:    KindInvalidEmail,
				Message: fmt.Sprintf("email must be at most %d characters", maxEmailLen),
			})
		}
	}
	if !reported.hasField("name") {
		switch name := sanitize.Cell(sub.Name); {
		case name == "":
			errs = append(errs, FieldError{Field: "name", Kind: KindEmptyName, Message: "name must be non-empty"})
		case utf8.RuneCountInString(name) > maxNameLen:
			errs = append(errs, FieldError{
				Field:   "name",
				Kind:    KindNameTooLong,
				Message: fmt.Sprintf("name must be at most %d characters", maxNameLen),
			})
		}
	}
	return errs
}

func toFieldError(fe validator.FieldError) FieldError {
	switch fe.Field() {
	case "email":
		msg := "email must be a valid email address"
		if fe.Tag() == "max" {
			msg = fmt.Sprintf("email must be at most %d characters", maxEmailLen)
		}
		return FieldError{Field: "email", Kind: KindInvalidEmail, Message: msg}
	case "name":
		if fe.Tag() == "max" {
			return FieldError{
				Field:   "name",
				Kind:    KindNameTooLong,
				Message: fmt.Sprintf("name must be at most %d characters", maxNameLen),
			}
		}
		return FieldError{Field: "name", Kind: KindEmptyName, Message: "name must be non-empty"}
	case "courses":
		return FieldError{Field: "courses", Kind: KindEmptyCourses, Message: "courses must be a non-empty set"}
	default:
		return FieldError{Field: fe.Field(), Message: fmt.Sprintf("%s is invalid", fe.Field())}
	}
}

func dedupe(courses []Course) []Course {
	seen := make(map[Course]struct{}, len(courses))
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func catalogList() string {
	names := make([]string, 0, len(catalog))
	for _, c := range Catalog() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
