// Package scenario maps the two presentation toggles onto one of the four
// calculator scenarios.
package scenario

import (
	"errors"
	"fmt"

	"fv-simulator/internal/model"
)

// ErrMissingScenario is matched by every *MissingScenarioError.
var ErrMissingScenario = errors.New("scenario missing from bundle")

// MissingScenarioError reports a bundle that lacks one of the four scenarios.
type MissingScenarioError struct {
	Scenario model.Scenario
}

func (e *MissingScenarioError) Error() string {
	return fmt.Sprintf("bundle is missing scenario %q", e.Scenario)
}

func (e *MissingScenarioError) Is(target error) bool { return target == ErrMissingScenario }

// table is indexed [withBenefits][withLeasing]. Every cell is filled; there is
// no fallback branch.
var table = [2][2]model.Scenario{
	{model.ScenarioBase, model.ScenarioLeasing},
	{model.ScenarioBenefits, model.ScenarioLeasingBenefits},
}

func idx(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FromFlags returns the scenario for a toggle combination.
func FromFlags(withBenefits, withLeasing bool) model.Scenario {
	return table[idx(withBenefits)][idx(withLeasing)]
}

// FromSelection is FromFlags for a model.Selection.
func FromSelection(sel model.Selection) model.Scenario {
	return FromFlags(sel.WithBenefits, sel.WithLeasing)
}

// Flags is the inverse of FromFlags.
func Flags(s model.Scenario) (withBenefits, withLeasing bool, ok bool) {
	for b := 0; b < 2; b++ {
		for l := 0; l < 2; l++ {
			if table[b][l] == s {
				return b == 1, l == 1, true
			}
		}
	}
	return false, false, false
}

// Select picks the active scenario and returns its series and indicators.
// The bundle must carry all four scenarios, even though only one is returned.
func Select(b *model.Bundle, withBenefits, withLeasing bool) (model.Scenario, []float64, model.Indicators, error) {
	if err := Complete(b); err != nil {
		return "", nil, model.Indicators{}, err
	}
	s := FromFlags(withBenefits, withLeasing)
	d, _ := b.Scenario(s)
	return s, d.Series, d.Indicators, nil
}

// Complete checks that b carries every scenario.
func Complete(b *model.Bundle) error {
	for _, s := range model.All() {
		if _, ok := b.Scenario(s); !ok {
			return &MissingScenarioError{Scenario: s}
		}
	}
	return nil
}
