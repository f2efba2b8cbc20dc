package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeUpstream   ErrorType = "upstream"
	ErrorTypeMalformed  ErrorType = "malformed_response"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeFileRead   ErrorType = "file_read"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
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

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewUpstreamError reports a failed or unreachable model call
func NewUpstreamError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeUpstream, code, message, cause)
}

// NewMalformedResponseError reports a model reply that does not fit the expected shape
func NewMalformedResponseError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeMalformed, code, message, cause)
}

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

// NewFileReadError reports an uploaded document that could not be read as text
func NewFileReadError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeFileRead, code, message, cause)
}

func NewConflictError(code, message string) *AppError {
	return newAppError(ErrorTypeConflict, code, message, nil)
}

func NewNotFoundError(code, message string) *AppError {
	return newAppError(ErrorTypeNotFound, code, message, nil)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// TypeOf returns the type of the first AppError in the chain, or "" if there is none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// UserMessage returns the message meant for display, falling back to the error text
func UserMessage(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func IsUpstream(err error) bool   { return TypeOf(err) == ErrorTypeUpstream }
func IsMalformed(err error) bool  { return TypeOf(err) == ErrorTypeMalformed }
func IsValidation(err error) bool { return TypeOf(err) == ErrorTypeValidation }
func IsFileRead(err error) bool   { return TypeOf(err) == ErrorTypeFileRead }
func IsConflict(err error) bool   { return TypeOf(err) == ErrorTypeConflict }
func IsNotFound(err error) bool   { return TypeOf(err) == ErrorTypeNotFound }

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger writing JSON to w
func NewLogger(w io.Writer, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(w, opts)
	return &Logger{logger: slog.New(handler)}
}

// NewNopLogger returns a logger that discards everything, for tests
func NewNopLogger() *Logger {
	return NewLogger(io.Discard, slog.LevelError)
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}
		if appErr.Cause != nil {
			logArgs = append(logArgs, "cause", appErr.Cause.Error())
		}
		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}
		logArgs = append(logArgs, args...)

		l.logger.Error(message, logArgs...)
		return
	}

	logArgs := append([]any{"error", err.Error()}, args...)
	l.logger.Error(message, logArgs...)
}

// With returns a logger that always includes the given attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

func (l *Logger) Error(message string, args ...any) {
	l.logger.Error(message, args...)
}

// New creates a logger on stderr so command output on stdout stays clean
func New(level string) (*Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewLogger(os.Stderr, slogLevel), nil
}

// ParseLevel converts a configured level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

// Common error codes
const (
	ErrCodeUpstreamFailed     = "UPSTREAM_FAILED"
	ErrCodeCircuitOpen        = "CIRCUIT_OPEN"
	ErrCodeMalformedResponse  = "MALFORMED_RESPONSE"
	ErrCodePartitionViolation = "PARTITION_VIOLATION"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeInvalidPage        = "INVALID_PAGE"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnsupportedFile    = "UNSUPPORTED_FILE"
	ErrCodeFileDecodeFailed   = "FILE_DECODE_FAILED"
	ErrCodeOperationBusy      = "OPERATION_IN_PROGRESS"
	ErrCodeSessionNotFound    = "SESSION_NOT_FOUND"
	ErrCodeResultRequired     = "RESULT_REQUIRED"
	ErrCodeRoadmapNotFound    = "ROADMAP_NOT_FOUND"
	ErrCodeSessionLimit       = "SESSION_LIMIT_REACHED"
	ErrCodeChatRejected       = "CHAT_REJECTED"
	ErrCodeFileNotFound       = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable    = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat      = "INVALID_FORMAT"
	ErrCodeMissingAPIKey      = "MISSING_API_KEY"
	ErrCodeInvalidConfig      = "INVALID_CONFIG"
)
