package workflow

import (
	"encoding/json"
	"strings"
)

// RawOperation is a patch operation as it arrives on the wire.
type RawOperation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// Patch op and path names accepted on the wire.
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"

	PathLabel           = "label"
	PathState           = "state"
	PathStateTransition = "stateTransition"
)

// ProjectOp is one change to a project's workflow configuration.
type ProjectOp interface {
	projectOp()
}

// IssueOp is one change to an issue's labels or state.
type IssueOp interface {
	issueOp()
}

// AddLabel adds a label to a project's allowed labels, or to an issue.
type AddLabel struct{ Label string }

// RemoveLabel removes a label from a project's allowed labels, or from an issue.
type RemoveLabel struct{ Label string }

// AddState adds an allowed state to a project.
type AddState struct{ State string }

// RemoveState removes an allowed state and every edge touching it.
type RemoveState struct{ State string }

// AddTransition adds an edge to a project's state graph.
type AddTransition struct{ Transition Transition }

// RemoveTransition removes an edge from a project's state graph.
type RemoveTransition struct{ Transition Transition }

// ReplaceState moves an issue to another state along a configured edge.
type ReplaceState struct{ State string }

func (AddLabel) projectOp()         {}
func (RemoveLabel) projectOp()      {}
func (AddState) projectOp()         {}
func (RemoveState) projectOp()      {}
func (AddTransition) projectOp()    {}
func (RemoveTransition) projectOp() {}

func (AddLabel) issueOp()     {}
func (RemoveLabel) issueOp()  {}
func (ReplaceState) issueOp() {}

// DecodeProjectOps validates a whole patch document before anything is applied.
// Unknown op/path pairs are rejected rather than skipped.
func DecodeProjectOps(raw []RawOperation) ([]ProjectOp, error) {
	if len(raw) == 0 {
		return nil, Newf(KindBadRequest, "patch document must contain at least one operation")
	}

	ops := make([]ProjectOp, 0, len(raw))
	for i, r := range raw {
		value, err := stringValue(i, r)
		if err != nil {
			return nil, err
		}

		switch {
		case r.Op == OpAdd && r.Path == PathLabel:
			ops = append(ops, AddLabel{Label: value})
		case r.Op == OpRemove && r.Path == PathLabel:
			ops = append(ops, RemoveLabel{Label: value})
		case r.Op == OpAdd && r.Path == PathState:
			ops = append(ops, AddState{State: value})
		case r.Op == OpRemove && r.Path == PathState:
			ops = append(ops, RemoveState{State: value})
		case r.Op == OpAdd && r.Path == PathStateTransition:
			t, err := ParseTransition(value)
			if err != nil {
				return nil, Newf(KindUnableToAddTransition, "unable to add transition %q: %v", value, err)
			}
			ops = append(ops, AddTransition{Transition: t})
		case r.Op == OpRemove && r.Path == PathStateTransition:
			t, err := ParseTransition(value)
			if err != nil {
				return nil, Newf(KindUnableToRemoveTransition, "unable to remove transition %q: %v", value, err)
			}
			ops = append(ops, RemoveTransition{Transition: t})
		default:
			return nil, unsupported(i, r)
		}
	}
	return ops, nil
}

// DecodeIssueOps validates an issue patch document.
func DecodeIssueOps(raw []RawOperation) ([]IssueOp, error) {
	if len(raw) == 0 {
		return nil, Newf(KindBadRequest, "patch document must contain at least one operation")
	}

	ops := make([]IssueOp, 0, len(raw))
	for i, r := range raw {
		value, err := stringValue(i, r)
		if err != nil {
			return nil, err
		}

		switch {
		case r.Op == OpAdd && r.Path == PathLabel:
			ops = append(ops, AddLabel{Label: value})
		case r.Op == OpRemove && r.Path == PathLabel:
			ops = append(ops, RemoveLabel{Label: value})
		case r.Op == OpReplace && r.Path == PathState:
			ops = append(ops, ReplaceState{State: value})
		default:
			return nil, unsupported(i, r)
		}
	}
	return ops, nil
}

func stringValue(i int, r RawOperation) (string, error) {
	if len(r.Value) == 0 {
		return "", Newf(KindBadRequest, "operation %d (%s %s): value is required", i, r.Op, r.Path)
	}
	var value string
	if err := json.Unmarshal(r.Value, &value); err != nil {
		return "", Wrapf(KindBadRequest, err, "operation %d (%s %s): value must be a string", i, r.Op, r.Path)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", Newf(KindBadRequest, "operation %d (%s %s): value cannot be empty", i, r.Op, r.Path)
	}
	return value, nil
}

func unsupported(i int, r RawOperation) error {
	return Newf(KindBadRequest, "operation %d: unsupported operation %q on path %q", i, r.Op, r.Path)
}
