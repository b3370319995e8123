package learnify

import "errors"

// Core failures are returned as values and matched with errors.Is. None
// of them are fatal to the process; each is scoped to the single user
// action that triggered it.
var (
	// ErrNotFound indicates an id did not resolve to a stored entity.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyAttempted indicates the student already has an attempt
	// for the quiz. Callers should redirect to the existing result.
	ErrAlreadyAttempted = errors.New("quiz already attempted")

	// ErrPastDue indicates the quiz's due date has passed and it can no
	// longer be started.
	ErrPastDue = errors.New("quiz past due")

	// ErrNoQuestions indicates a quiz with no questions, which can never
	// be started (score would be undefined).
	ErrNoQuestions = errors.New("quiz has no questions")

	// ErrDuplicateRequest indicates a join request already exists for
	// the (classroom, student) pair.
	ErrDuplicateRequest = errors.New("join request already exists")

	// ErrInvalidTransition indicates a decision on a join request that
	// is no longer pending. The UI should never allow this; treat it as
	// a logic fault rather than a recoverable user error.
	ErrInvalidTransition = errors.New("join request is not pending")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken indicates a signup with an email that is already
	// registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrGenerationFailed indicates the LLM call failed or returned
	// nothing usable. Always recoverable by re-submitting the request.
	ErrGenerationFailed = errors.New("generation failed")
)
