package lead

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"leadapi/internal/sanitize"
)

// TimestampLayout renders a record timestamp with second precision in UTC.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Record is the canonical shape both storage backends persist.
type Record struct {
	Timestamp   time.Time
	Email       string
	Name        string
	CoursesJSON string
}

// Encode builds the record for l at instant now. Callers capture now once per
// request so every backend sees the same timestamp.
func Encode(l Lead, now time.Time) Record {
	return Record{
		Timestamp:   now.UTC().Truncate(time.Second),
		Email:       sanitize.Cell(l.Email),
		Name:        sanitize.Cell(l.Name),
		CoursesJSON: coursesJSON(l.Courses),
	}
}

// TimestampString renders the timestamp as YYYY-MM-DDTHH:MM:SSZ.
func (r Record) TimestampString() string {
	return r.Timestamp.UTC().Format(TimestampLayout)
}

// Fields returns the record values in column order.
func (r Record) Fields() []string {
	return []string{r.TimestampString(), r.Email, r.Name, r.CoursesJSON}
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Timestamp   string `json:"timestamp"`
		Email       string `json:"email"`
		Name        string `json:"name"`
		CoursesJSON string `json:"courses_json"`
	}{r.TimestampString(), r.Email, r.Name, r.CoursesJSON})
}

// coursesJSON sorts the courses and renders them as a JSON array of strings,
// elements separated by ", " and non-ASCII left unescaped.
func coursesJSON(courses []Course) string {
	names := make([]string, 0, len(courses))
	for _, c := range courses {
		names = append(names, string(c))
	}
	slices.Sort(names)
	// Encode also accepts hand-built leads that never went through Validate.
	names = slices.Compact(names)

	var b strings.Builder
	b.WriteByte('[')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(jsonString(name))
	}
	b.WriteByte(']')
	return b.String()
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
