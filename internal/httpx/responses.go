package httpx

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	OK    bool              `json:"ok"`
	Error ErrorResponseBody `json:"error"`
	Meta  map[string]any    `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

func buildMeta(r *http.Request) map[string]any {
	requestID := RequestIDFrom(r)
	if requestID == "" {
		return nil
	}
	return map[string]any{"request_id": requestID}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// JSONSuccess writes a 200 body holding "ok": true next to fields.
func JSONSuccess(w http.ResponseWriter, r *http.Request, fields map[string]any) {
	body := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["ok"] = true
	if meta := buildMeta(r); meta != nil {
		body["meta"] = meta
	}
	JSON(w, http.StatusOK, body)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, details []ErrorDetail) {
	JSON(w, statusCode, ErrorResponse{
		OK: false,
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: buildMeta(r),
	})
}
