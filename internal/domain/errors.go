package domain

// ValidationError reports missing or malformed caller input. The message is
// user-facing and surfaced verbatim at the HTTP boundary.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// NotFoundError reports a lookup that resolved to no user.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

var (
	ErrMissingUsername = &ValidationError{msg: "username is required"}
	ErrMissingFields   = &ValidationError{msg: "Please fill in required fields"}
	ErrInvalidDuration = &ValidationError{msg: "Invalid Duration"}
	ErrInvalidDate     = &ValidationError{msg: "Invalid Date"}
	ErrMissingUserID   = &ValidationError{msg: "UserId Required"}

	ErrUnknownUser = &NotFoundError{msg: "Unknown UserId"}
)
