package subscription

import "slices"

// ChangeReason is a machine-readable code explaining why a plan change
// was rejected by the validator.
type ChangeReason string

const (
	ChangeReasonSamePlan         ChangeReason = "same_plan"
	ChangeReasonIllegalDowngrade ChangeReason = "illegal_downgrade"
)

// ChangeValidation is the advisory result of validating a plan change.
// The billing provider remains the authority: it may still reject a change
// that validated locally, since its state can move between validation and
// execution.
type ChangeValidation struct {
	Valid       bool         `json:"valid"`
	Reason      ChangeReason `json:"reason,omitempty"`
	IsUpgrade   bool         `json:"is_upgrade,omitempty"`
	IsDowngrade bool         `json:"is_downgrade,omitempty"`
}

// ValidateChange classifies a requested tier change against the graph.
// Identical tiers are rejected with same_plan; any pair without a configured
// edge is rejected with illegal_downgrade. Pure and side-effect free.
func (g *Graph) ValidateChange(current, target Tier) ChangeValidation {
	if current == target {
		return ChangeValidation{Valid: false, Reason: ChangeReasonSamePlan}
	}

	if slices.Contains(g.upgrades[current], target) {
		return ChangeValidation{Valid: true, IsUpgrade: true}
	}
	if slices.Contains(g.downgrades[current], target) {
		return ChangeValidation{Valid: true, IsDowngrade: true}
	}

	return ChangeValidation{Valid: false, Reason: ChangeReasonIllegalDowngrade}
}
