package finance

import "errors"

// Sentinel errors shared by the engine and the services built on it.
// Callers match with errors.Is; wrapping layers add context via fmt.Errorf("%w").
var (
	// ErrInvalidAmount is returned when an amount is negative, zero where a
	// positive value is required, or not parseable as a decimal.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnauthorized is returned when the actor lacks the finance-admin
	// capability or presents a wrong confirmation code.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrIncompleteScenario is returned when a simulation run is attempted
	// on a scenario with no income or expense items.
	ErrIncompleteScenario = errors.New("scenario has no items")

	// ErrNotFound is returned when an operation, scenario or document id
	// does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicatePayment is returned when a payment is declared twice for
	// the same operation and period.
	ErrDuplicatePayment = errors.New("payment already declared for period")

	// ErrInvalidTransition is returned when a document status change is not
	// allowed by the lifecycle and the caller did not force it.
	ErrInvalidTransition = errors.New("invalid status transition")
)
