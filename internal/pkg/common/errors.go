package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Error  string `json:"error"`            // 錯誤代碼或訊息
	Detail string `json:"detail,omitempty"` // 詳細信息（僅在除錯模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 回傳原始錯誤，讓 errors.Is / errors.As 可以穿透
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，Wrap 出來的錯誤仍可與預定義錯誤比對
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap 以預定義錯誤為模板包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// StatusOf 取得錯誤對應的 HTTP 狀態碼，未知錯誤視為 500
func StatusOf(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Status != 0 {
		return ce.Status
	}
	return http.StatusInternalServerError
}

// ServerErrorMessage 對外統一的伺服器錯誤訊息
const ServerErrorMessage = "Server error"

// NewErrorResponse 依錯誤決定狀態碼與響應：自定義錯誤回傳其代碼，其餘一律為 Server error
func NewErrorResponse(err error) (int, ErrorResponse) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return StatusOf(err), ErrorResponse{Error: ce.Code}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: ServerErrorMessage}
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeUnauthenticated = "UNAUTHENTICATED"   // 401
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeTableNotConfigured = "TABLE_NOT_CONFIGURED" // 500
	ErrCodeModelInvocation    = "MODEL_INVOCATION"     // 502
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"      // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrUnauthenticated = NewError(ErrCodeUnauthenticated, "unauthenticated", http.StatusUnauthorized, nil)
	ErrRequestTooLarge = NewError(ErrCodeRequestTooLarge, "request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrTableNotConfigured = NewError(ErrCodeTableNotConfigured, "favorites table not configured", http.StatusInternalServerError, nil)
	ErrModelInvocation    = NewError(ErrCodeModelInvocation, "model invocation failed", http.StatusBadGateway, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrCacheFull     = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "cache is disabled", http.StatusServiceUnavailable, nil)
)
