package httpapi

import (
	"errors"
	"net/http"

	"sampletrack/internal/domain"
)

// Result 统一响应包裹
// - code: 2000 success
// - type: 'success' | 'error'
// - message: string
// - result: payload
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultTokenExpired 使用 code=60401 + HTTP 401（前端拦截器会特殊处理）
	ResultTokenExpired = 60401
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// httpStatusFor maps the domain error taxonomy onto HTTP statuses.
// Consistency failures get their own status so clients retry the whole
// transition instead of treating it like a generic store fault.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrConsistency):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError 按错误类别写响应
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, httpStatusFor(err), Fail(err.Error()))
}
