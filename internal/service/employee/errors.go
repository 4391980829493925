package employee

import (
	"errors"
	"fmt"
)

// Kind classifies store failures.
type Kind int

const (
	KindAlreadyExists Kind = iota + 1
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyExists = errors.New("employee already exists")
	ErrNotFound      = errors.New("employee not found")
)

// Error is returned by Store operations and carries the offending identifier.
type Error struct {
	Kind Kind
	ID   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAlreadyExists:
		return fmt.Sprintf("Employee with id %s already exists", e.ID)
	case KindNotFound:
		return fmt.Sprintf("Employee with id %s not found", e.ID)
	default:
		return fmt.Sprintf("Employee with id %s: unknown error", e.ID)
	}
}

// Is lets callers match on ErrAlreadyExists and ErrNotFound.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAlreadyExists:
		return e.Kind == KindAlreadyExists
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

func alreadyExists(id string) error { return &Error{Kind: KindAlreadyExists, ID: id} }

func notFound(id string) error { return &Error{Kind: KindNotFound, ID: id} }

// KindOf extracts the Kind of a store error, or zero if err is not one.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
