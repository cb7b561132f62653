package csvfile

import "strings"

// appendRow encodes fields as one comma-separated row terminated by "\n".
// A field is quoted only when it holds a comma, a double quote, CR or LF, and
// embedded quotes are doubled.
func appendRow(dst []byte, fields []string) []byte {
	for i, field := range fields {
		if i > 0 {
			dst = append(dst, ',')
		}
		if !strings.ContainsAny(field, ",\"\r\n") {
			dst = append(dst, field...)
			continue
		}
		dst = append(dst, '"')
		dst = append(dst, strings.ReplaceAll(field, `"`, `""`)...)
		dst = append(dst, '"')
	}
	return append(dst, '\n')
}
