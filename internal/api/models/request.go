package models

import "fv-simulator/internal/model"

// SelectionQuery holds the toggles of a view request (?benefits=&leasing=).
// An omitted toggle keeps its current value.
type SelectionQuery struct {
	Benefits *bool `form:"benefits"`
	Leasing  *bool `form:"leasing"`
}

// Apply overlays the toggles present in q onto current.
func (q SelectionQuery) Apply(current model.Selection) model.Selection {
	out := current
	if q.Benefits != nil {
		out.WithBenefits = *q.Benefits
	}
	if q.Leasing != nil {
		out.WithLeasing = *q.Leasing
	}
	return out
}

// Empty reports whether no toggle was given.
func (q SelectionQuery) Empty() bool {
	return q.Benefits == nil && q.Leasing == nil
}
