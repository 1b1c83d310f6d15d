package session

import "errors"

var (
	// ErrInvalidInput indicates malformed or missing required input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrClarificationNeeded signals the stated goal is too vague to plan
	// against. It is a soft validation signal, distinct from ErrInvalidInput,
	// prompting the caller to elicit more detail rather than reject outright.
	ErrClarificationNeeded = errors.New("goal needs clarification")
	// ErrSessionNotFound indicates the session is absent or belongs to another
	// tenant. The two cases are deliberately indistinguishable so existence
	// never leaks across tenant boundaries.
	ErrSessionNotFound = errors.New("session not found")
	// ErrRecordNotAvailable indicates the record cannot be produced yet
	// because the session is not completed. Surfaced as not-found outward.
	ErrRecordNotAvailable = errors.New("record not available")
	// ErrForbidden indicates an authenticated caller who is not authorized,
	// e.g. a non-owner completing a session.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition indicates an illegal aggregate state transition.
	ErrInvalidTransition = errors.New("invalid session state transition")
	// ErrUnknownStatus indicates a stored status outside the closed set.
	ErrUnknownStatus = errors.New("unknown session status")
	// ErrUnavailable indicates a store or planner failure. Callers may retry.
	ErrUnavailable = errors.New("service unavailable")
)
