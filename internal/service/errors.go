// internal/service/errors.go
package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned when login fails. It deliberately does
// not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// PermissionError means the actor lacks ownership or assignment rights for
// the attempted mutation. Distinct from validation failures.
type PermissionError struct {
	Msg string
}

func (e *PermissionError) Error() string {
	return e.Msg
}

// ValidationError is a field-level or business-rule violation. No partial
// state is committed when one is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// NotFoundError means a referenced entity does not exist, or is outside the
// actor's visible scope.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func permissionDenied(msg string) error {
	return &PermissionError{Msg: msg}
}

func validationFailed(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func notFound(resource string, id uuid.UUID) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsPermission reports whether err is a PermissionError.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
