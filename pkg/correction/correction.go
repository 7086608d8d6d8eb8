// Package correction implements the one-click fixes offered when the Q2
// expense breakdown does not reconcile with Q2 operating expenses.
package correction

import (
	"errors"
	"fmt"

	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/iwvelando/quarterly-report/pkg/mathutil"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
)

// Action names a corrective transform.
type Action string

const (
	// AdoptBreakdownAction replaces Q2 operating expenses with the breakdown sum.
	AdoptBreakdownAction Action = "adopt-breakdown"
	// RescaleBreakdownAction scales the breakdown to Q2 operating expenses.
	RescaleBreakdownAction Action = "rescale-breakdown"
)

// ErrUnknownAction is returned by Apply for an unrecognised action.
var ErrUnknownAction = errors.New("unknown corrective action")

// Label returns the button text of an action.
func (a Action) Label() string {
	switch a {
	case AdoptBreakdownAction:
		return "Usar suma del desglose como Gastos Operativos Q2"
	case RescaleBreakdownAction:
		return "Escalar desglose para que coincida con Gastos Operativos Q2"
	default:
		return string(a)
	}
}

// Actions lists every corrective action in the order they are offered.
func Actions() []Action {
	return []Action{AdoptBreakdownAction, RescaleBreakdownAction}
}

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions() {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Apply runs the named action on a copy of the record.
func Apply(action Action, in metrics.Input) (metrics.Input, error) {
	switch action {
	case AdoptBreakdownAction:
		return AdoptBreakdown(in), nil
	case RescaleBreakdownAction:
		return RescaleBreakdown(in), nil
	default:
		return in, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// AdoptBreakdown sets Q2 operating expenses to the breakdown sum, clamped at
// zero. Callers must re-validate: a negative sum does not converge.
func AdoptBreakdown(in metrics.Input) metrics.Input {
	in.OpexQ2 = mathutil.NonNegative(metrics.BreakdownSum(in))
	return in
}

// RescaleBreakdown multiplies every breakdown category by
// max(0, opex_Q2) / max(1, breakdownSum) and rounds each to a whole currency
// unit. Independent rounding can leave the new sum a few units off opex_Q2.
func RescaleBreakdown(in metrics.Input) metrics.Input {
	sum := mathutil.Max(constants.MarginDivisorFloor, metrics.BreakdownSum(in))
	factor := mathutil.NonNegative(in.OpexQ2) / sum

	values := in.BreakdownValues()
	for i, v := range values {
		values[i] = mathutil.RoundHalfUp(v * factor)
	}
	return in.WithBreakdown(values)
}
