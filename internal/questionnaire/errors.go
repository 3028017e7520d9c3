package questionnaire

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned for unknown session ids
	ErrSessionNotFound = errors.New("questionnaire: session not found")

	// ErrSubmissionInFlight is returned when a transition is attempted
	// while a submission is outstanding
	ErrSubmissionInFlight = errors.New("questionnaire: a submission is already in flight")

	// ErrAlreadyCompleted is returned when a session in the result state
	// is mutated without a reset
	ErrAlreadyCompleted = errors.New("questionnaire: session already has a result, reset to start over")

	// ErrSkippingAhead is returned when jumping past the current question
	ErrSkippingAhead = errors.New("questionnaire: cannot jump past the current question")

	// ErrUnknownOption is returned when a value is not among the
	// question's options
	ErrUnknownOption = errors.New("questionnaire: value is not one of the question's options")
)

// ValidationError reports unanswered questions blocking a transition. It
// is a user-recoverable condition, never a system failure.
type ValidationError struct {
	// MissingQuestions holds 1-based question ids, in question order.
	MissingQuestions []int
}

func (e *ValidationError) Error() string {
	if len(e.MissingQuestions) == 1 {
		return fmt.Sprintf("questionnaire: question %d is unanswered", e.MissingQuestions[0])
	}
	return fmt.Sprintf("questionnaire: questions %v are unanswered", e.MissingQuestions)
}
