package service

import "errors"

type ErrorCode string

const (
	ErrorCodeValidation        ErrorCode = "validation"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeForbidden         ErrorCode = "forbidden"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeSourceNotFound    ErrorCode = "source_not_found"
	ErrorCodeUnsupportedFormat ErrorCode = "unsupported_format"
	ErrorCodeInvalidDimension  ErrorCode = "invalid_dimension"
	ErrorCodeTooLarge          ErrorCode = "too_large"
	ErrorCodeInternal          ErrorCode = "internal"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
	// Fields 字段级错误信息，仅校验错误使用
	Fields map[string]string
	// Err 底层错误，仅用于日志，不会返回给客户端
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(code ErrorCode, message string) error {
	return &ServiceError{Code: code, Message: message}
}

// WrapServiceError 构造带底层错误的 ServiceError
func WrapServiceError(code ErrorCode, message string, err error) error {
	return &ServiceError{Code: code, Message: message, Err: err}
}

func NewValidationError(message string) error {
	return NewServiceError(ErrorCodeValidation, message)
}

// NewFieldValidationError 构造带字段明细的校验错误
func NewFieldValidationError(message string, fields map[string]string) error {
	return &ServiceError{Code: ErrorCodeValidation, Message: message, Fields: fields}
}

func NewUnauthorizedError(message string) error {
	return NewServiceError(ErrorCodeUnauthorized, message)
}

func NewForbiddenError(message string) error {
	return NewServiceError(ErrorCodeForbidden, message)
}

func NewNotFoundError(message string) error {
	return NewServiceError(ErrorCodeNotFound, message)
}

func NewInternalError(message string) error {
	return NewServiceError(ErrorCodeInternal, message)
}

func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

// IsCode 判断 err 是否为指定错误码的 ServiceError
func IsCode(err error, code ErrorCode) bool {
	serviceErr, ok := AsServiceError(err)
	return ok && serviceErr.Code == code
}
