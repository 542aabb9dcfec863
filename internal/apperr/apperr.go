package apperr

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// 状态码直接沿用 HTTP 语义
const (
	CodeBadRequest   = http.StatusBadRequest
	CodeUnauthorized = http.StatusUnauthorized
	CodeForbidden    = http.StatusForbidden
	CodeNotFound     = http.StatusNotFound
	CodeConflict     = http.StatusConflict
	CodeInternal     = http.StatusInternalServerError
)

// classNames code -> 稳定类名（对外 JSON 契约的一部分，勿随意改名）
var classNames = map[int]string{
	http.StatusBadRequest:          "bad-request",
	http.StatusUnauthorized:        "not-authenticated",
	http.StatusPaymentRequired:     "payment-error",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not-found",
	http.StatusMethodNotAllowed:    "method-not-allowed",
	http.StatusNotAcceptable:       "not-acceptable",
	http.StatusRequestTimeout:      "timeout",
	http.StatusConflict:            "conflict",
	http.StatusGone:                "gone",
	http.StatusTooManyRequests:     "too-many-requests",
	http.StatusInternalServerError: "internal-server-error",
	http.StatusNotImplemented:      "not-implemented",
	http.StatusBadGateway:          "bad-gateway",
	http.StatusServiceUnavailable:  "unavailable",
}

// ClassName 返回状态码对应的稳定类名；未知状态码按 500 处理
func ClassName(code int) string {
	if name, ok := classNames[code]; ok {
		return name
	}
	return classNames[http.StatusInternalServerError]
}

// FieldError 单个字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// Exception 组件对外的唯一错误形态：所有底层 store/index/hash 错误
// 必须在越过仓储边界之前被翻译成它
type Exception struct {
	Code      int            `json:"code"`
	ClassName string         `json:"className"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	Errors    any            `json:"errors,omitempty"`
}

func New(code int, message string, data map[string]any) *Exception {
	if message == "" {
		message = http.StatusText(code)
	}
	if data == nil {
		data = map[string]any{}
	}
	// data.errors 提升为顶层 errors（与旧响应体兼容）
	e := &Exception{Code: code, ClassName: ClassName(code), Message: message, Data: data}
	if errs, ok := data["errors"]; ok {
		e.Errors = errs
		delete(data, "errors")
	}
	return e
}

func BadRequest(message string, data map[string]any) *Exception {
	return New(CodeBadRequest, message, data)
}

func Unauthorized(message string, data map[string]any) *Exception {
	return New(CodeUnauthorized, message, data)
}

func NotFound(message string, data map[string]any) *Exception {
	return New(CodeNotFound, message, data)
}

func Conflict(message string, data map[string]any) *Exception {
	return New(CodeConflict, message, data)
}

func Internal(message string, data map[string]any) *Exception {
	return New(CodeInternal, message, data)
}

func (e *Exception) Error() string {
	return fmt.Sprintf("[%d %s] %s", e.Code, e.ClassName, e.Message)
}

// WithErrors 设置 errors 负载（校验错误列表、冲突字段等）
func (e *Exception) WithErrors(errs any) *Exception {
	e.Errors = errs
	return e
}

// JSON 序列化为 HTTP 层的失败响应体
func (e *Exception) JSON() []byte {
	b, _ := json.Marshal(e)
	return b
}

// From 任意 error 提升为 Exception；已是 Exception 的原样返回
func From(err error) *Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Exception); ok {
		return e
	}
	return Internal(err.Error(), nil)
}
