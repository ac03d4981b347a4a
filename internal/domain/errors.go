package domain

import "errors"

var (
	// ErrBankTooSmall is returned when a test asks for more questions than the bank holds.
	ErrBankTooSmall = errors.New("question bank smaller than requested test size")
	// ErrInvalidCount indicates a non-positive question count.
	ErrInvalidCount = errors.New("question count must be positive")
	// ErrEmptySubmission indicates scoring was asked to score zero questions.
	ErrEmptySubmission = errors.New("cannot score an empty question set")
	// ErrAttemptNotFound is returned for unknown or already submitted attempts.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAlreadyAnswered is returned for a second daily submission on the same date.
	ErrAlreadyAnswered = errors.New("daily question already answered")
	// ErrInvalidDate indicates a date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrUnknownBank indicates a bank kind with no configured source.
	ErrUnknownBank = errors.New("unknown question bank")
	// ErrMissingUser indicates an empty user identifier.
	ErrMissingUser = errors.New("user id is required")
	// ErrUnknownCategory indicates a practice category absent from the bank.
	ErrUnknownCategory = errors.New("unknown category")
)
