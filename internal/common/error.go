// Package common defines the error kinds shared by the upstream clients,
// repositories, services and the HTTP layer. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// ErrorNotFound: the user or country does not exist.
	ErrorNotFound = errors.New("not found")

	// ErrorInvalidRequest: malformed client input, or an upstream reported
	// no data for a well-formed query.
	ErrorInvalidRequest = errors.New("invalid request")

	// ErrorUpstreamUnavailable: network or 5xx failure of an external API.
	ErrorUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrorPersistence: storage read or write failure.
	ErrorPersistence = errors.New("persistence error")

	// ErrorAlreadyExists is returned by repositories on unique key violations.
	ErrorAlreadyExists = errors.New("already exists")
)

// Error pairs an error kind with a human-readable message and the
// lower-level cause. errors.Is matches the kind as well as anything in the
// cause chain.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// NewError builds an Error of the given kind. cause may be nil.
func NewError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Detail returns the diagnostic text of the underlying cause, falling back
// to the message when there is no cause.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}
