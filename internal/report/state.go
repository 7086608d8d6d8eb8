package report

import (
	"slices"

	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/iwvelando/quarterly-report/pkg/correction"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
)

// State is the editable record together with its undo and redo history.
// It is a value: every transition returns a new State and leaves the
// receiver untouched.
type State struct {
	past    []metrics.Input
	present metrics.Input
	future  []metrics.Input
}

// NewState starts a history at in.
func NewState(in metrics.Input) State {
	return State{present: in.Normalize()}
}

// Input returns the current record.
func (s State) Input() metrics.Input {
	return s.present
}

// Set changes one field from form text.
func (s State) Set(key, raw string) (State, error) {
	next, err := s.present.WithField(key, raw)
	if err != nil {
		return s, err
	}
	return s.push(next), nil
}

// Apply runs a corrective action on the current record.
func (s State) Apply(action correction.Action) (State, error) {
	next, err := correction.Apply(action, s.present)
	if err != nil {
		return s, err
	}
	return s.push(next), nil
}

// Replace swaps in a whole record, e.g. one imported from a spreadsheet.
func (s State) Replace(in metrics.Input) State {
	return s.push(in.Normalize())
}

// CanUndo reports whether there is a previous record.
func (s State) CanUndo() bool {
	return len(s.past) > 0
}

// CanRedo reports whether an undone record can be restored.
func (s State) CanRedo() bool {
	return len(s.future) > 0
}

// Undo returns to the previous record. Without history it returns s.
func (s State) Undo() State {
	if !s.CanUndo() {
		return s
	}
	last := len(s.past) - 1
	return State{
		past:    slices.Clone(s.past[:last]),
		present: s.past[last],
		future:  append(slices.Clone(s.future), s.present),
	}
}

// Redo restores the most recently undone record. Without one it returns s.
func (s State) Redo() State {
	if !s.CanRedo() {
		return s
	}
	last := len(s.future) - 1
	return State{
		past:    append(slices.Clone(s.past), s.present),
		present: s.future[last],
		future:  slices.Clone(s.future[:last]),
	}
}

// push records a transition. Unchanged records leave the history alone and
// any change clears the redo stack.
func (s State) push(next metrics.Input) State {
	if next == s.present {
		return s
	}
	past := append(slices.Clone(s.past), s.present)
	if len(past) > constants.MaxHistory {
		past = past[len(past)-constants.MaxHistory:]
	}
	return State{past: past, present: next}
}
