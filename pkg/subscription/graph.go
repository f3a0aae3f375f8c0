package subscription

import (
	"errors"
	"fmt"
	"slices"
)

// Node declares the transitions reachable from a single tier.
type Node struct {
	Tier       Tier
	Upgrades   []Tier
	Downgrades []Tier
}

// Graph is the static transition graph between tiers. It is configuration
// data, validated once at construction, and immutable afterwards so it is
// safe for concurrent use.
type Graph struct {
	order      []Tier
	upgrades   map[Tier][]Tier
	downgrades map[Tier][]Tier
}

// NewGraph validates and builds a transition graph from the given nodes.
// Rules enforced at construction:
//   - no tier transitions to itself
//   - a target appears in at most one of a tier's upgrade/downgrade sets
//   - every referenced tier has its own node
//   - every paid tier has a downgrade path to the free tier
func NewGraph(nodes ...Node) (*Graph, error) {
	g := &Graph{
		order:      make([]Tier, 0, len(nodes)),
		upgrades:   make(map[Tier][]Tier, len(nodes)),
		downgrades: make(map[Tier][]Tier, len(nodes)),
	}

	for _, node := range nodes {
		if !node.Tier.Valid() {
			return nil, errors.Join(ErrInvalidGraph, fmt.Errorf("unknown tier %q", node.Tier))
		}
		if _, exists := g.upgrades[node.Tier]; exists {
			return nil, errors.Join(ErrInvalidGraph, fmt.Errorf("duplicate node for tier %q", node.Tier))
		}

		for _, target := range node.Upgrades {
			if target == node.Tier {
				return nil, errors.Join(ErrInvalidGraph, fmt.Errorf("tier %q upgrades to itself", node.Tier))
			}
			if slices.Contains(node.Downgrades, target) {
				return nil, errors.Join(ErrInvalidGraph,
					fmt.Errorf("tier %q lists %q as both upgrade and downgrade", node.Tier, target))
			}
		}
		for _, target := range node.Downgrades {
			if target == node.Tier {
				return nil, errors.Join(ErrInvalidGraph, fmt.Errorf("tier %q downgrades to itself", node.Tier))
			}
		}

		g.order = append(g.order, node.Tier)
		g.upgrades[node.Tier] = slices.Clone(node.Upgrades)
		g.downgrades[node.Tier] = slices.Clone(node.Downgrades)
	}

	for _, node := range nodes {
		for _, target := range slices.Concat(node.Upgrades, node.Downgrades) {
			if _, exists := g.upgrades[target]; !exists {
				return nil, errors.Join(ErrInvalidGraph,
					fmt.Errorf("tier %q references unconfigured tier %q", node.Tier, target))
			}
		}
	}

	for _, tier := range g.order {
		if tier == TierStarter {
			continue
		}
		if !g.reachesFree(tier) {
			return nil, errors.Join(ErrInvalidGraph,
				fmt.Errorf("tier %q has no downgrade path to the free tier", tier))
		}
	}

	return g, nil
}

// MustNewGraph is like NewGraph but panics on invalid configuration.
// Use for static graphs where misconfiguration should prevent startup.
func MustNewGraph(nodes ...Node) *Graph {
	g, err := NewGraph(nodes...)
	if err != nil {
		panic(err)
	}
	return g
}

// DefaultGraph returns the standard transition graph for the canonical
// three-tier catalog: either paid tier cancels down to starter, monthly
// upgrades to yearly, and yearly may step down to monthly.
func DefaultGraph() *Graph {
	return MustNewGraph(
		Node{
			Tier:     TierStarter,
			Upgrades: []Tier{TierPremiumMonthly, TierPremiumYearly},
		},
		Node{
			Tier:       TierPremiumMonthly,
			Upgrades:   []Tier{TierPremiumYearly},
			Downgrades: []Tier{TierStarter},
		},
		Node{
			Tier:       TierPremiumYearly,
			Downgrades: []Tier{TierPremiumMonthly, TierStarter},
		},
	)
}

// Reachable returns the tiers reachable from t by upgrade and by downgrade,
// in configuration order. Unknown tiers have no reachable transitions.
func (g *Graph) Reachable(t Tier) (upgrades, downgrades []Tier) {
	return slices.Clone(g.upgrades[t]), slices.Clone(g.downgrades[t])
}

// reachesFree walks downgrade edges from t looking for the free tier.
func (g *Graph) reachesFree(t Tier) bool {
	seen := map[Tier]bool{t: true}
	queue := slices.Clone(g.downgrades[t])
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == TierStarter {
			return true
		}
		if seen[next] {
			continue
		}
		seen[next] = true
		queue = append(queue, g.downgrades[next]...)
	}
	return false
}
