package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindOutOfStock        ErrorKind = "out_of_stock"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindForbidden         ErrorKind = "forbidden"
	KindInvalidState      ErrorKind = "invalid_state"
	KindUnexpected        ErrorKind = "unexpected"
)

// Error is the typed failure every operation in this core returns to its
// caller. The Kind drives HTTP status mapping in delivery; the message is
// user-presentable and names the offending entity.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf unwraps err and reports its ErrorKind, or KindUnexpected when the
// error did not originate from this core.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindUnexpected
}
