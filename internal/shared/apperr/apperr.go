package apperr

import "fmt"

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindOwnership
	KindStore
)

// Error carries the failure class plus optional field detail so handlers can
// map it to the right HTTP status without string matching.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Msg
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Msg: what + " not found"}
}

func Ownership(msg string) *Error {
	return &Error{Kind: KindOwnership, Msg: msg}
}

func Store(err error) *Error {
	return &Error{Kind: KindStore, Msg: "storage failure", Err: err}
}
