package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a mailtag error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrCanceled       ErrorCode = "CANCELED"        // 408
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// MailtagError represents a structured error with code, status, and details.
type MailtagError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *MailtagError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MailtagError {
	return &MailtagError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownTag creates a 400 error for a tag outside the closed tag set.
func NewUnknownTag(tag string) *MailtagError {
	return &MailtagError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: fmt.Sprintf("unknown tag: %q", tag),
		Details: map[string]any{"tag": tag},
	}
}

// NewCustomerNotFound creates a 404 error for an unknown customer identifier.
func NewCustomerNotFound(customerID string) *MailtagError {
	return &MailtagError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("customer not found: %s", customerID),
		Details: map[string]any{"customer_id": customerID},
	}
}

// NewEmailNotFound creates a 404 error for an unknown email identifier.
func NewEmailNotFound(id string) *MailtagError {
	return &MailtagError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("email not found: %s", id),
		Details: map[string]any{"email_id": id},
	}
}

// NewNoSamples creates a 404 error for a known customer with no sample emails.
func NewNoSamples(customerID string) *MailtagError {
	return &MailtagError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("no sample emails for customer: %s", customerID),
		Details: map[string]any{"customer_id": customerID},
	}
}

// NewCanceled creates a 408 error when the caller abandons a classification.
func NewCanceled(err error) *MailtagError {
	msg := "classification canceled"
	if err != nil {
		msg = fmt.Sprintf("classification canceled: %v", err)
	}
	return &MailtagError{
		Code:    ErrCanceled,
		Status:  408,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *MailtagError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &MailtagError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or any error it wraps) is a MailtagError with the given code.
func Is(err error, code ErrorCode) bool {
	var mErr *MailtagError
	if stderrors.As(err, &mErr) {
		return mErr.Code == code
	}
	return false
}

