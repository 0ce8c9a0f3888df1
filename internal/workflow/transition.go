package workflow

import (
	"fmt"
	"strings"
)

// TransitionSeparator separates the two states in a transition value.
const TransitionSeparator = "->"

// Transition is a directed edge of a project's state graph.
type Transition struct {
	From string `json:"previousState"`
	To   string `json:"nextState"`
}

func (t Transition) String() string {
	return t.From + TransitionSeparator + t.To
}

// ParseTransition parses "previous->next". Exactly one separator is allowed
// and both sides must be non-empty after trimming.
func ParseTransition(value string) (Transition, error) {
	if strings.Count(value, TransitionSeparator) != 1 {
		return Transition{}, fmt.Errorf("value syntax error, must be previousState%snextState", TransitionSeparator)
	}
	from, to, _ := strings.Cut(value, TransitionSeparator)
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return Transition{}, fmt.Errorf("value syntax error, both states are required in %q", value)
	}
	return Transition{From: from, To: to}, nil
}
