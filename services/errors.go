package services

import (
	"errors"

	"pawcare-backend/utils"

	"github.com/google/uuid"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindDuplicate
	// KindInternal carries a message that is safe to show with a 500.
	KindInternal
)

// Error is a business failure whose message is shown to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func invalid(msg string) error      { return &Error{Kind: KindValidation, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func forbidden(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func notFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func conflict(msg string) error     { return &Error{Kind: KindConflict, Message: msg} }
func duplicate(msg string) error    { return &Error{Kind: KindDuplicate, Message: msg} }
func internal(msg string) error     { return &Error{Kind: KindInternal, Message: msg} }

// AsError unwraps err into a service Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a service Error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == k
}

func customerIDOf(s utils.Session) (uuid.UUID, error) {
	if !utils.IsCustomer(s) || s.CustomerID == "" {
		return uuid.Nil, internal("Customer ID not found")
	}
	id, err := uuid.Parse(s.CustomerID)
	if err != nil {
		return uuid.Nil, internal("Customer ID not found")
	}
	return id, nil
}

func groomerIDOf(s utils.Session) (uuid.UUID, bool) {
	if !utils.IsGroomer(s) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s.UserID)
	return id, err == nil
}
