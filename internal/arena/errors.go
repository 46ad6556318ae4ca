package arena

import "errors"

// Errors returned by store operations. Callers match them with errors.Is; the
// text is the short status message shown to the user.
var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrUnknownUser        = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrNotApproved        = errors.New("account not approved yet")
	ErrNotLoggedIn        = errors.New("a user must be logged in")

	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrAlreadyRegistered        = errors.New("already registered for this tournament")
	ErrTournamentFull           = errors.New("tournament is full")
	ErrInsufficientParticipants = errors.New("need at least 2 participants")

	ErrMatchNotFound = errors.New("match not found")

	// ErrPersist wraps a failed gateway write. The mutation that triggered it
	// has been rolled back.
	ErrPersist = errors.New("failed to persist store")
	// ErrCorruptDocument is returned by gateways when the stored document
	// exists but cannot be decoded.
	ErrCorruptDocument = errors.New("corrupt store document")
)
