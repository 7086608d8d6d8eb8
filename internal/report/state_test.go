package report

import (
	"errors"
	"strconv"
	"testing"

	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/iwvelando/quarterly-report/pkg/correction"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
)

func TestStateUndoRedo(t *testing.T) {
	s0 := NewState(metrics.Seed())

	s1, err := s0.Set(metrics.KeyRevenueQ2, "5000000")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if s1.Input().RevenueQ2 != 5000000 {
		t.Errorf("RevenueQ2 = %v, expected %v", s1.Input().RevenueQ2, 5000000.0)
	}
	if s0.Input().RevenueQ2 != 4200000 {
		t.Errorf("original state changed: RevenueQ2 = %v", s0.Input().RevenueQ2)
	}

	undone := s1.Undo()
	if undone.Input() != metrics.Seed() {
		t.Errorf("Undo() = %+v, expected seed", undone.Input())
	}
	if !undone.CanRedo() {
		t.Error("CanRedo() = false after Undo, expected true")
	}

	redone := undone.Redo()
	if redone.Input() != s1.Input() {
		t.Errorf("Redo() = %+v, expected %+v", redone.Input(), s1.Input())
	}
}

func TestStateEditClearsRedo(t *testing.T) {
	s, _ := NewState(metrics.Seed()).Set(metrics.KeyCOGSQ2, "1")
	s = s.Undo()
	s, _ = s.Set(metrics.KeyCOGSQ2, "2")

	if s.CanRedo() {
		t.Error("CanRedo() = true after a new edit, expected false")
	}
}

func TestStateUnchangedEditKeepsHistory(t *testing.T) {
	s, _ := NewState(metrics.Seed()).Set(metrics.KeyCompany, "LIBRERÍA ATLAS")
	if s.CanUndo() {
		t.Error("CanUndo() = true after a no-op edit, expected false")
	}
}

func TestStateUndoWithoutHistory(t *testing.T) {
	s := NewState(metrics.Seed())
	if got := s.Undo(); got.Input() != s.Input() {
		t.Errorf("Undo() = %+v, expected unchanged", got.Input())
	}
	if got := s.Redo(); got.Input() != s.Input() {
		t.Errorf("Redo() = %+v, expected unchanged", got.Input())
	}
}

func TestStateApply(t *testing.T) {
	s, err := NewState(metrics.Seed()).Apply(correction.AdoptBreakdownAction)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if s.Input().OpexQ2 != 1100000 {
		t.Errorf("OpexQ2 = %v, expected %v", s.Input().OpexQ2, 1100000.0)
	}

	_, err = s.Apply(correction.Action("bogus"))
	if !errors.Is(err, correction.ErrUnknownAction) {
		t.Errorf("Apply(bogus) error = %v, expected ErrUnknownAction", err)
	}
}

func TestStateUnknownField(t *testing.T) {
	_, err := NewState(metrics.Seed()).Set("nope", "1")
	if !errors.Is(err, metrics.ErrUnknownField) {
		t.Errorf("Set(nope) error = %v, expected ErrUnknownField", err)
	}
}

func TestStateHistoryCap(t *testing.T) {
	s := NewState(metrics.Seed())
	for i := 1; i <= constants.MaxHistory+10; i++ {
		s, _ = s.Set(metrics.KeyRevenueQ1, strconv.Itoa(i))
	}

	undos := 0
	for s.CanUndo() {
		s = s.Undo()
		undos++
	}
	if undos != constants.MaxHistory {
		t.Errorf("undo depth = %d, expected %d", undos, constants.MaxHistory)
	}
}

func TestStateReplace(t *testing.T) {
	in := metrics.Seed()
	in.Company = "OTRA"
	s := NewState(metrics.Seed()).Replace(in)

	if s.Input().Company != "OTRA" {
		t.Errorf("Company = %q, expected %q", s.Input().Company, "OTRA")
	}
	if !s.CanUndo() {
		t.Error("CanUndo() = false after Replace, expected true")
	}
}
