package common

import "errors"

var (
	// ErrSourceUnavailable 数据源不可用（网络错误、超时、非2xx）
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNoIdentifier 记录缺少比赛ID
	ErrNoIdentifier = errors.New("record has no match identifier")

	// ErrNotFound 未找到错误
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput 无效输入错误
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized 未授权错误
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimitExceeded 速率限制错误
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrDisabled 可选组件未配置
	ErrDisabled = errors.New("component disabled")
)

// AppError 应用错误
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 创建应用错误
func NewAppError(code string, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// StatusCode maps an error to an HTTP status for API responses.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return 200
	case errors.Is(err, ErrInvalidInput):
		return 400
	case errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDisabled):
		return 404
	case errors.Is(err, ErrRateLimitExceeded):
		return 429
	case errors.Is(err, ErrSourceUnavailable):
		return 502
	default:
		return 500
	}
}
