package util

import "net/http"

// AppError 带 HTTP 状态提示的业务错误
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}

func NewValidation(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

var (
	ErrUserNotFound       = NewNotFound("User not found")
	ErrQuizNotFound       = NewNotFound("Quiz not found")
	ErrExerciseNotFound   = NewNotFound("Exercise not found")
	ErrLessonNotFound     = NewNotFound("Lesson not found")
	ErrSubjectNotFound    = NewNotFound("Subject not found")
	ErrChapterNotFound    = NewNotFound("Chapter not found")
	ErrUserExists         = NewConflict("User already exists with this email or username")
	ErrUsernameTaken      = NewConflict("Username already taken")
	ErrInvalidCredentials = NewUnauthorized("Invalid email or password")
	ErrInvalidRefresh     = NewUnauthorized("Invalid or expired refresh token")
	ErrAccountLocked      = NewForbidden("Account is locked. Too many failed login attempts")
	ErrAnswerCountMatch   = NewValidation("Answer count does not match question count")
)
