package httperr

import "errors"

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindPaymentExists     Kind = "payment_exists"
	KindAlreadyProcessed  Kind = "already_processed"
	KindValidation        Kind = "validation"
	KindDuplicateRequest  Kind = "duplicate_request"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func newErr(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return newErr(KindNotFound, code, message)
}

func ErrInvalidTransition(code, message string) error {
	return newErr(KindInvalidTransition, code, message)
}

func ErrPaymentExists(code, message string) error {
	return newErr(KindPaymentExists, code, message)
}

func ErrAlreadyProcessed(code, message string) error {
	return newErr(KindAlreadyProcessed, code, message)
}

func ErrValidation(code, message string) error {
	return newErr(KindValidation, code, message)
}

func ErrDuplicateRequest(code, message string) error {
	return newErr(KindDuplicateRequest, code, message)
}

func ErrConflict(code, message string) error {
	return newErr(KindConflict, code, message)
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns KindInternal for anything that is not a BusinessError.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// Result is the structured outcome handed to callers of the booking operations.
type Result struct {
	Success bool   `json:"success"`
	Kind    Kind   `json:"error_kind,omitempty"`
	Code    string `json:"error_code,omitempty"`
	Message string `json:"message,omitempty"`
}

func FromError(err error) Result {
	if err == nil {
		return Result{Success: true}
	}

	var be BusinessError
	if errors.As(err, &be) {
		return Result{Kind: be.Kind, Code: be.Code, Message: be.Message}
	}

	return Result{Kind: KindInternal, Code: "internal_error", Message: "Unexpected error."}
}
