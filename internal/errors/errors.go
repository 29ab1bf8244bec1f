package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError by code, so predefined values work with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrConfigNotFound = &AppError{Code: "CONFIG_001", Message: "configuration not found"}
	ErrConfigInvalid  = &AppError{Code: "CONFIG_002", Message: "invalid configuration"}

	ErrHabitNotFound    = &AppError{Code: "HABIT_001", Message: "habit not found"}
	ErrHabitNameInvalid = &AppError{Code: "HABIT_002", Message: "invalid habit name"}
	ErrHabitDescInvalid = &AppError{Code: "HABIT_003", Message: "invalid habit description"}

	ErrEntryNotFound = &AppError{Code: "ENTRY_001", Message: "entry not found"}
	ErrEntryInvalid  = &AppError{Code: "ENTRY_002", Message: "invalid entry"}

	ErrStoreUnavailable = &AppError{Code: "STORE_001", Message: "store unavailable"}
	ErrStoreQuery       = &AppError{Code: "STORE_002", Message: "store query failed"}
	ErrImportFailed     = &AppError{Code: "STORE_003", Message: "legacy import failed"}

	ErrCacheMiss = &AppError{Code: "CACHE_001", Message: "cache miss"}

	ErrNotifierNotConfigured = &AppError{Code: "NOTIFY_001", Message: "notifier not configured"}
	ErrNotifierUnavailable   = &AppError{Code: "NOTIFY_002", Message: "notifier unavailable"}

	ErrSkillNotFound  = &AppError{Code: "SKILL_001", Message: "tool not found"}
	ErrSkillExecution = &AppError{Code: "SKILL_002", Message: "tool execution failed"}

	ErrUnauthorized = &AppError{Code: "AUTH_001", Message: "unauthorized"}
	ErrForbidden    = &AppError{Code: "AUTH_002", Message: "forbidden"}
	ErrRateLimited  = &AppError{Code: "AUTH_003", Message: "rate limit exceeded"}

	ErrNotFound   = &AppError{Code: "GEN_001", Message: "resource not found"}
	ErrBadRequest = &AppError{Code: "GEN_002", Message: "bad request"}
	ErrInternal   = &AppError{Code: "GEN_003", Message: "internal error"}
)

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// HTTPStatus maps an error code to the status the API responds with
func HTTPStatus(err error) int {
	code := GetCode(err)
	switch code {
	case ErrHabitNotFound.Code, ErrEntryNotFound.Code, ErrNotFound.Code, ErrSkillNotFound.Code:
		return http.StatusNotFound
	case ErrHabitNameInvalid.Code, ErrHabitDescInvalid.Code, ErrEntryInvalid.Code, ErrBadRequest.Code:
		return http.StatusBadRequest
	case ErrRateLimited.Code:
		return http.StatusTooManyRequests
	case ErrForbidden.Code:
		return http.StatusForbidden
	}
	if strings.HasPrefix(code, "AUTH_") {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to show a client
func PublicMessage(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Message
}
