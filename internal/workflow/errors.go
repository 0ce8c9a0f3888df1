// Package workflow holds the project workflow model shared by the services and
// the API: the closed set of error kinds, the typed patch operations, and the
// state transition syntax.
package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure. The API maps each kind to exactly one
// HTTP status and problem type.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyExists
	KindNotOwner
	KindNoPermission
	KindUnauthorized
	KindBadRequest
	KindInvalidLabel
	KindRemoveState
	KindIssueArchived
	KindTransitionNotPossible
	KindUnableToAddTransition
	KindUnableToRemoveTransition
)

var kindNames = map[Kind]string{
	KindInternal:                 "internal",
	KindNotFound:                 "not_found",
	KindAlreadyExists:            "already_exists",
	KindNotOwner:                 "not_owner",
	KindNoPermission:             "no_permission",
	KindUnauthorized:             "unauthorized",
	KindBadRequest:               "bad_request",
	KindInvalidLabel:             "invalid_label",
	KindRemoveState:              "remove_state",
	KindIssueArchived:            "issue_archived",
	KindTransitionNotPossible:    "transition_not_possible",
	KindUnableToAddTransition:    "unable_to_add_transition",
	KindUnableToRemoveTransition: "unable_to_remove_transition",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a domain failure carrying a user-visible detail message.
type Error struct {
	Kind   Kind
	Detail string
	Err    error // optional cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, workflow.ErrNotFound)
// works for any not-found failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Detail == ""
}

// Newf builds an *Error of the given kind.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrapf builds an *Error of the given kind that keeps cause for logging.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf reports the kind of err, or KindInternal when err is not a domain error.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return KindInternal
}

// Kind sentinels for errors.Is checks.
var (
	ErrNotFound                 = &Error{Kind: KindNotFound}
	ErrAlreadyExists            = &Error{Kind: KindAlreadyExists}
	ErrNotOwner                 = &Error{Kind: KindNotOwner}
	ErrNoPermission             = &Error{Kind: KindNoPermission}
	ErrUnauthorized             = &Error{Kind: KindUnauthorized}
	ErrBadRequest               = &Error{Kind: KindBadRequest}
	ErrInvalidLabel             = &Error{Kind: KindInvalidLabel}
	ErrRemoveState              = &Error{Kind: KindRemoveState}
	ErrIssueArchived            = &Error{Kind: KindIssueArchived}
	ErrTransitionNotPossible    = &Error{Kind: KindTransitionNotPossible}
	ErrUnableToAddTransition    = &Error{Kind: KindUnableToAddTransition}
	ErrUnableToRemoveTransition = &Error{Kind: KindUnableToRemoveTransition}
)
