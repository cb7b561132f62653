package lead

import (
	"encoding/json"
	"fmt"
)

// Course is a course identifier from the fixed catalog.
type Course string

const (
	CourseAIFundamentals Course = "ai_fundamentals"
	CourseMLAdvanced     Course = "ml_advanced"
	CourseDLBootcamp     Course = "dl_bootcamp"
)

var catalog = map[Course]struct{}{
	CourseAIFundamentals: {},
	CourseMLAdvanced:     {},
	CourseDLBootcamp:     {},
}

// Catalog returns every allowed course in lexicographic order.
func Catalog() []Course {
	return []Course{CourseAIFundamentals, CourseDLBootcamp, CourseMLAdvanced}
}

// Valid reports whether c belongs to the catalog.
func (c Course) Valid() bool {
	_, ok := catalog[c]
	return ok
}

// UnknownCourseError is returned while decoding a value outside the catalog.
type UnknownCourseError struct {
	Value string
}

func (e *UnknownCourseError) Error() string {
	return fmt.Sprintf("unknown course %q", e.Value)
}

// UnmarshalJSON rejects anything that is not a catalog literal, so unknown
// courses fail at parse time rather than during validation.
func (c *Course) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &UnknownCourseError{Value: string(b)}
	}
	course := Course(s)
	if !course.Valid() {
		return &UnknownCourseError{Value: s}
	}
	*c = course
	return nil
}
