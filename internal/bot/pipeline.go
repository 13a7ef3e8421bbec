package bot

import (
	"liaptui/internal/bot/internal"
)

// SelectionContext holds the state for the hand organization decision pipeline.
type SelectionContext struct {
	Candidates    []internal.OrganizedHand
	CurrentBest   internal.OrganizedHand
	SelectedIndex int
}

// SelectionRule represents a logic unit that can influence which hand organization is chosen.
type SelectionRule interface {
	Name() string
	Apply(ctx *SelectionContext)
}

// FavorStraightsRule prefers hand organizations that keep more straights intact.
type FavorStraightsRule struct{}

func (r *FavorStraightsRule) Name() string { return "FavorStraights" }

func (r *FavorStraightsRule) Apply(ctx *SelectionContext) {
	bestIdx := ctx.SelectedIndex
	maxStraights := len(ctx.CurrentBest.Straights)

	for i, candidate := range ctx.Candidates {
		if len(candidate.Straights) > maxStraights {
			maxStraights = len(candidate.Straights)
			bestIdx = i
		}
	}

	if bestIdx != ctx.SelectedIndex {
		ctx.SelectedIndex = bestIdx
		ctx.CurrentBest = ctx.Candidates[bestIdx]
	}
}

// FavorPairsRule prefers hand organizations that maximize pairs.
type FavorPairsRule struct{}

func (r *FavorPairsRule) Name() string { return "FavorPairs" }

func (r *FavorPairsRule) Apply(ctx *SelectionContext) {
	bestIdx := ctx.SelectedIndex
	maxPairs := len(ctx.CurrentBest.Pairs)

	for i, candidate := range ctx.Candidates {
		if len(candidate.Pairs) > maxPairs {
			maxPairs = len(candidate.Pairs)
			bestIdx = i
		}
	}

	if bestIdx != ctx.SelectedIndex {
		ctx.SelectedIndex = bestIdx
		ctx.CurrentBest = ctx.Candidates[bestIdx]
	}
}

// FewerLoosePiecesRule breaks toward organizations with fewer loose singles.
type FewerLoosePiecesRule struct{}

func (r *FewerLoosePiecesRule) Name() string { return "FewerLoosePieces" }

func (r *FewerLoosePiecesRule) Apply(ctx *SelectionContext) {
	bestIdx := ctx.SelectedIndex
	minSingles := len(ctx.CurrentBest.Singles)

	for i, candidate := range ctx.Candidates {
		if len(candidate.Singles) < minSingles {
			minSingles = len(candidate.Singles)
			bestIdx = i
		}
	}

	if bestIdx != ctx.SelectedIndex {
		ctx.SelectedIndex = bestIdx
		ctx.CurrentBest = ctx.Candidates[bestIdx]
	}
}

// selectOrganization runs the rules over the tactical options and returns
// the surviving organization.
func selectOrganization(options []internal.OrganizedHand, rules []SelectionRule) internal.OrganizedHand {
	ctx := &SelectionContext{
		Candidates:  options,
		CurrentBest: options[0],
	}
	for _, rule := range rules {
		rule.Apply(ctx)
	}
	return ctx.CurrentBest
}
