package questionnaire

import "strings"

// Answer holds the response to one question as an explicit ordered set of
// values (order = selection order, duplicates impossible by construction).
// The comma-joined string form only exists at the serialization boundary.
type Answer struct {
	values []string
}

// Empty reports whether the question is unanswered.
func (a *Answer) Empty() bool {
	return len(a.values) == 0
}

// Set replaces the answer with a single value. Used for single, scale and
// freetext questions.
func (a *Answer) Set(value string) {
	a.values = []string{value}
}

// Toggle removes the value if present, otherwise appends it. Used for
// multiple-choice questions.
func (a *Answer) Toggle(value string) {
	for i, v := range a.values {
		if v == value {
			a.values = append(a.values[:i], a.values[i+1:]...)
			return
		}
	}
	a.values = append(a.values, value)
}

// Clear resets the answer to unanswered.
func (a *Answer) Clear() {
	a.values = nil
}

// Values returns a copy of the selected values in selection order.
func (a *Answer) Values() []string {
	out := make([]string, len(a.values))
	copy(out, a.values)
	return out
}

// Encode serializes the answer to its wire form: values joined with ", ",
// empty string when unanswered.
func (a *Answer) Encode() string {
	return strings.Join(a.values, ", ")
}
