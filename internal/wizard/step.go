package wizard

import (
	"errors"
	"fmt"
)

// Step is the position of a session in the exam creation flow.
type Step string

const (
	StepDesigning  Step = "designing"
	StepScheduling Step = "scheduling"
	StepCompleted  Step = "completed"
)

// Event drives a step transition.
type Event string

const (
	EventValidated Event = "validated"
	EventBack      Event = "back"
	EventSubmitted Event = "submitted"
)

var ErrInvalidTransition = errors.New("invalid wizard transition")

// transitions is the full transition table; anything absent is rejected.
var transitions = map[Step]map[Event]Step{
	StepDesigning: {
		EventValidated: StepScheduling,
	},
	StepScheduling: {
		EventBack:      StepDesigning,
		EventSubmitted: StepCompleted,
	},
}

// Next returns the step reached from s on ev.
func (s Step) Next(ev Event) (Step, error) {
	if next, ok := transitions[s][ev]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, s)
}

// Terminal reports whether no further transitions exist from s.
func (s Step) Terminal() bool {
	return len(transitions[s]) == 0
}
