package errors

import "fmt"

// ErrorCode encodes an HTTP status, an owning module and a sequence number
// into a single integer: SSSMMCC.
type ErrorCode int

// fmtErrorCode builds an ErrorCode from its components.
func fmtErrorCode(status, module, code int) ErrorCode {
	return ErrorCode(status*10000 + module*100 + code)
}

// Status returns the HTTP status carried by the error code.
func (e ErrorCode) Status() int {
	return int(e) / 10000
}

// AppError is the error type surfaced to API clients.
type AppError struct {
	ErrorCode ErrorCode `json:"code"`
	Message   string    `json:"message"`
}

// Error implements the error interface.
func (e AppError) Error() string {
	return fmt.Sprintf("[%d] %s", e.ErrorCode, e.Message)
}

// New creates an AppError from an error code. An optional first string
// argument overrides the default message.
func New(errCode ErrorCode, args ...interface{}) AppError {
	return AppError{
		ErrorCode: errCode,
		Message:   GetErrorMessage(errCode, args...),
	}
}

// Newf creates an AppError with a formatted message.
func Newf(errCode ErrorCode, format string, args ...interface{}) AppError {
	return AppError{
		ErrorCode: errCode,
		Message:   fmt.Sprintf(format, args...),
	}
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	appErr, ok := err.(AppError)
	return ok && appErr.ErrorCode == code
}
