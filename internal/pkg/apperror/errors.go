package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidOutput    ErrorCode = "INVALID_GENERATION_OUTPUT"
	ErrCodeGenerationFailed ErrorCode = "GENERATION_REQUEST_FAILED"
	ErrCodeLeadCapture      ErrorCode = "LEAD_CAPTURE_FAILED"
	ErrCodeDownloadLocked   ErrorCode = "DOWNLOAD_LOCKED"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeDownloadLocked:
		return http.StatusForbidden
	case ErrCodeInvalidOutput, ErrCodeGenerationFailed, ErrCodeLeadCapture:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf возвращает код ошибки или ErrCodeInternal для неизвестных ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsInvalidOutput(err error) bool {
	return CodeOf(err) == ErrCodeInvalidOutput
}

func IsGenerationFailed(err error) bool {
	return CodeOf(err) == ErrCodeGenerationFailed
}

func IsLeadCapture(err error) bool {
	return CodeOf(err) == ErrCodeLeadCapture
}

// Тексты для пользователя. Сырые ответы модели и CRM наружу не отдаются.
const (
	MsgGenerationFailed = "Failed to generate proposal. Please check your inputs and try again."
	MsgEmailFailed      = "Failed to generate the email. Please try again."
	MsgSuggestFailed    = "Failed to generate suggestions. Please try again."
	MsgLeadCapture      = "An error occurred. Please try again."
	MsgDownloadLocked   = "Please submit your details to unlock the download."
)

var (
	ErrDownloadLocked = New(ErrCodeDownloadLocked, MsgDownloadLocked)
)
