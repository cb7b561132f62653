package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
)

// ValidSubmission is a request body that passes every lead rule.
var ValidSubmission = map[string]any{
	"email":   "ana@example.com",
	"name":    "Ana",
	"courses": []string{"ai_fundamentals"},
}

// NewRequest creates a new HTTP request with body marshalled as JSON.
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRawRequest creates a request whose body is sent verbatim.
func NewRawRequest(method, path, body string) *http.Request {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// RecordHTTPResponse decodes the recorded JSON body into a map.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, _ := r.Body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

// ErrorRules returns the rule of every entry in error.details.
func (r RecordResponse) ErrorRules() []string {
	e, _ := r.Body["error"].(map[string]any)
	details, _ := e["details"].([]any)
	rules := make([]string, 0, len(details))
	for _, d := range details {
		m, _ := d.(map[string]any)
		rule, _ := m["rule"].(string)
		rules = append(rules, rule)
	}
	return rules
}
