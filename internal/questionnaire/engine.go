package questionnaire

import (
	"context"
	"strings"
	"sync"

	"github.com/serenova-spa/recommend-platform/internal/recommend"
)

// Status is the engine's high-level state.
type Status string

const (
	StatusAnswering  Status = "answering"
	StatusSubmitting Status = "submitting"
	StatusResult     Status = "result"
	StatusError      Status = "error"
)

// Submitter turns a completed questionnaire into a recommendation.
// Implemented by the recommend.Orchestrator.
type Submitter interface {
	Submit(ctx context.Context, sessionID string, answers []recommend.RenderedAnswer) (*recommend.Result, error)
}

// Engine is the step sequencer for one questionnaire session. It owns the
// ten answers and drives submission. Sessions are independent; the engine
// holds no cross-session state.
type Engine struct {
	mu        sync.Mutex
	sessionID string
	questions []Question
	answers   [Count]Answer
	current   int
	status    Status
	result    *recommend.Result
	lastError string
}

// NewEngine creates a session at question 1 with all answers empty.
func NewEngine(sessionID string) *Engine {
	return &Engine{
		sessionID: sessionID,
		questions: Questions(),
		status:    StatusAnswering,
	}
}

// SessionID returns the session identifier.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// SelectOption records a selection on the current question: replace for
// single/scale/freetext, toggle for multiple.
func (e *Engine) SelectOption(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mutableLocked(); err != nil {
		return err
	}
	if value == "" {
		return ErrUnknownOption
	}

	q := e.questions[e.current]
	switch q.Type {
	case TypeMultiple:
		if !hasOption(q, value) {
			return ErrUnknownOption
		}
		e.answers[e.current].Toggle(value)
	case TypeSingle, TypeScale:
		if !hasOption(q, value) {
			return ErrUnknownOption
		}
		e.answers[e.current].Set(value)
	default:
		e.answers[e.current].Set(value)
	}
	e.status = StatusAnswering
	return nil
}

// Next advances past the current question. On the last question it
// validates all ten answers and submits; otherwise it moves one step
// forward. A *ValidationError is returned when answers are missing, and
// the engine never advances past an unanswered step.
func (e *Engine) Next(ctx context.Context, submitter Submitter) (*recommend.Result, error) {
	e.mu.Lock()

	if err := e.mutableLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	if e.current < Count-1 {
		if e.answers[e.current].Empty() {
			e.mu.Unlock()
			return nil, &ValidationError{MissingQuestions: []int{e.questions[e.current].ID}}
		}
		e.current++
		e.status = StatusAnswering
		e.mu.Unlock()
		return nil, nil
	}

	// Last question: re-validate everything before submitting. If
	// anything is missing, jump to the first unanswered question.
	var missing []int
	for i := range e.answers {
		if e.answers[i].Empty() {
			missing = append(missing, e.questions[i].ID)
		}
	}
	if len(missing) > 0 {
		e.current = missing[0] - 1
		e.mu.Unlock()
		return nil, &ValidationError{MissingQuestions: missing}
	}

	e.status = StatusSubmitting
	rendered := e.renderLocked()
	sessionID := e.sessionID
	// Release the lock for the upstream call so state reads stay
	// responsive; the Submitting status keeps submission exclusive.
	e.mu.Unlock()

	result, err := submitter.Submit(ctx, sessionID, rendered)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.status = StatusError
		e.lastError = err.Error()
		return nil, err
	}
	e.status = StatusResult
	e.result = result
	e.lastError = ""
	return result, nil
}

// Back moves to the previous question; no-op on the first one.
func (e *Engine) Back() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mutableLocked(); err != nil {
		return err
	}
	if e.current > 0 {
		e.current--
	}
	e.status = StatusAnswering
	return nil
}

// JumpTo revisits a completed step. Skipping ahead is not allowed.
func (e *Engine) JumpTo(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.mutableLocked(); err != nil {
		return err
	}
	if index < 0 || index > e.current {
		return ErrSkippingAhead
	}
	e.current = index
	e.status = StatusAnswering
	return nil
}

// Reset returns to question 1 with all answers cleared, from any state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.answers {
		e.answers[i].Clear()
	}
	e.current = 0
	e.status = StatusAnswering
	e.result = nil
	e.lastError = ""
}

// mutableLocked guards transitions: submission is exclusive per session,
// and a session with a result must be reset before editing.
func (e *Engine) mutableLocked() error {
	switch e.status {
	case StatusSubmitting:
		return ErrSubmissionInFlight
	case StatusResult:
		return ErrAlreadyCompleted
	default:
		return nil
	}
}

// renderLocked maps every answer back to human-readable option text, with
// multi-select values joined by ", ".
func (e *Engine) renderLocked() []recommend.RenderedAnswer {
	out := make([]recommend.RenderedAnswer, Count)
	for i, q := range e.questions {
		texts := make([]string, 0, 1)
		for _, v := range e.answers[i].Values() {
			texts = append(texts, optionText(q, v))
		}
		out[i] = recommend.RenderedAnswer{
			Question: q.Prompt,
			Answer:   strings.Join(texts, ", "),
		}
	}
	return out
}

// Snapshot is a read-only view of the session for the HTTP layer.
type Snapshot struct {
	SessionID    string            `json:"session_id"`
	Status       Status            `json:"status"`
	CurrentIndex int               `json:"current_index"`
	Question     Question          `json:"question"`
	Answers      []string          `json:"answers"`
	Result       *recommend.Result `json:"result,omitempty"`
	LastError    string            `json:"last_error,omitempty"`
}

// Snapshot returns the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	answers := make([]string, Count)
	for i := range e.answers {
		answers[i] = e.answers[i].Encode()
	}
	return Snapshot{
		SessionID:    e.sessionID,
		Status:       e.status,
		CurrentIndex: e.current,
		Question:     e.questions[e.current],
		Answers:      answers,
		Result:       e.result,
		LastError:    e.lastError,
	}
}
