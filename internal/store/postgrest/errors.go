package postgrest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError — ошибка, возвращённая PostgREST.
// Тело ответа: {"code": "...", "message": "...", "details": "...", "hint": "..."}.
type APIError struct {
	// StatusCode — HTTP-статус ответа
	StatusCode int `json:"-"`
	// Code — код ошибки PostgreSQL или PostgREST (например, 23505, PGRST116)
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("PostgREST вернул статус %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("PostgREST вернул статус %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// decodeAPIError читает тело ответа с ошибкой.
// Если тело не JSON, оно целиком попадает в Message.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return apiErr
}
