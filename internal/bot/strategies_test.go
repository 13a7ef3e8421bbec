package bot

import (
	"testing"

	"liaptui/internal/domain"
)

func pc(kind domain.Kind, color domain.Color, copy int) domain.Piece {
	return domain.Piece{Kind: kind, Color: color, Copy: int8(copy)}
}

// weakHand totals 16 points with nothing above a black horse.
func weakHand() []domain.Piece {
	return []domain.Piece{
		pc(domain.Soldier, domain.Black, 0),
		pc(domain.Soldier, domain.Black, 1),
		pc(domain.Soldier, domain.Black, 2),
		pc(domain.Soldier, domain.Black, 3),
		pc(domain.Soldier, domain.Black, 4),
		pc(domain.Cannon, domain.Black, 0),
		pc(domain.Cannon, domain.Black, 1),
		pc(domain.Horse, domain.Black, 0),
	}
}

// strongHand totals 68 points with the red general on top.
func strongHand() []domain.Piece {
	return []domain.Piece{
		pc(domain.General, domain.Red, 0),
		pc(domain.Advisor, domain.Red, 0),
		pc(domain.Advisor, domain.Red, 1),
		pc(domain.Elephant, domain.Red, 0),
		pc(domain.Chariot, domain.Red, 0),
		pc(domain.Horse, domain.Red, 0),
		pc(domain.Cannon, domain.Red, 0),
		pc(domain.Soldier, domain.Red, 0),
	}
}

func TestChooseRedealByLevel(t *testing.T) {
	cases := []struct {
		name       string
		strategy   Strategy
		weak       bool
		strong     bool
	}{
		{"standard", &StandardStrategy{}, true, false},
		{"greedy", &GreedyStrategy{}, true, true},
		{"cautious", &CautiousStrategy{}, false, false},
		{"master", NewMasterStrategy(), true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.strategy.ChooseRedeal(weakHand()); got != tc.weak {
				t.Errorf("redeal on weak hand = %v, want %v", got, tc.weak)
			}
			if got := tc.strategy.ChooseRedeal(strongHand()); got != tc.strong {
				t.Errorf("redeal on strong hand = %v, want %v", got, tc.strong)
			}
		})
	}
}

func TestLegalDeclaration(t *testing.T) {
	cases := []struct {
		name      string
		est       int
		forbidden int
		want      int
	}{
		{"in range", 5, -1, 5},
		{"clamped high", 12, -1, domain.TotalPiles},
		{"clamped low", -2, -1, 0},
		{"steps down off forbidden", 5, 5, 4},
		{"steps up off forbidden zero", 0, 0, 1},
		{"clamp then step", 12, domain.TotalPiles, domain.TotalPiles - 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := DeclareView{Position: 3, Total: 3, Forbidden: tc.forbidden}
			if got := legalDeclaration(tc.est, view); got != tc.want {
				t.Errorf("legalDeclaration(%d, forbidden %d) = %d, want %d", tc.est, tc.forbidden, got, tc.want)
			}
		})
	}
}

func TestStandardDeclarationAvoidsForbidden(t *testing.T) {
	s := &StandardStrategy{}
	hand := strongHand()

	// Three pieces at 11+ plus the upper and lower straights.
	open := s.ChooseDeclaration(hand, DeclareView{Forbidden: -1})
	if open != 5 {
		t.Fatalf("open declaration = %d, want 5", open)
	}
	blocked := s.ChooseDeclaration(hand, DeclareView{Position: 3, Total: 3, Forbidden: 5})
	if blocked != 4 {
		t.Fatalf("blocked declaration = %d, want 4", blocked)
	}
}

func TestStandardDumpsOnceBidIsMet(t *testing.T) {
	s := &StandardStrategy{}
	hand := []domain.Piece{
		pc(domain.Advisor, domain.Red, 0),
		pc(domain.Advisor, domain.Red, 1),
		pc(domain.Soldier, domain.Black, 0),
		pc(domain.Soldier, domain.Black, 1),
	}
	toBeat := domain.IdentifyPlay([]domain.Piece{
		pc(domain.Elephant, domain.Black, 0),
		pc(domain.Elephant, domain.Black, 1),
	})

	met := s.ChoosePlay(hand, TableView{Required: 2, ToBeat: toBeat, Declared: 1, Captured: 1})
	want := []domain.Piece{pc(domain.Soldier, domain.Black, 0), pc(domain.Soldier, domain.Black, 1)}
	if !domain.HoldsAll(want, met) || len(met) != 2 {
		t.Fatalf("play with bid met = %v, want the soldier pair", met)
	}

	behind := s.ChoosePlay(hand, TableView{Required: 2, ToBeat: toBeat, Declared: 1, Captured: 0})
	wantPair := []domain.Piece{pc(domain.Advisor, domain.Red, 0), pc(domain.Advisor, domain.Red, 1)}
	if !domain.HoldsAll(wantPair, behind) || len(behind) != 2 {
		t.Fatalf("play while behind = %v, want the advisor pair", behind)
	}
}

func TestGreedyKeepsFightingAfterBid(t *testing.T) {
	s := &GreedyStrategy{}
	hand := []domain.Piece{
		pc(domain.Advisor, domain.Red, 0),
		pc(domain.Advisor, domain.Red, 1),
		pc(domain.Soldier, domain.Black, 0),
		pc(domain.Soldier, domain.Black, 1),
	}
	toBeat := domain.IdentifyPlay([]domain.Piece{
		pc(domain.Elephant, domain.Black, 0),
		pc(domain.Elephant, domain.Black, 1),
	})

	got := s.ChoosePlay(hand, TableView{Required: 2, ToBeat: toBeat, Declared: 1, Captured: 1})
	wantPair := []domain.Piece{pc(domain.Advisor, domain.Red, 0), pc(domain.Advisor, domain.Red, 1)}
	if !domain.HoldsAll(wantPair, got) || len(got) != 2 {
		t.Fatalf("greedy play with bid met = %v, want the advisor pair", got)
	}
}

func TestFollowWithNothingWinningShedsLowest(t *testing.T) {
	s := &StandardStrategy{}
	hand := []domain.Piece{
		pc(domain.Horse, domain.Black, 0),
		pc(domain.Cannon, domain.Black, 0),
		pc(domain.Soldier, domain.Black, 0),
	}
	toBeat := domain.IdentifyPlay([]domain.Piece{pc(domain.General, domain.Red, 0)})

	got := s.ChoosePlay(hand, TableView{Required: 1, ToBeat: toBeat, Declared: 2, Captured: 0})
	if len(got) != 1 || got[0] != pc(domain.Soldier, domain.Black, 0) {
		t.Fatalf("hopeless follow = %v, want the black soldier", got)
	}
}

func TestLeadSpendsCheapUnitAndKeepsStraight(t *testing.T) {
	s := &StandardStrategy{}
	hand := []domain.Piece{
		pc(domain.General, domain.Red, 0),
		pc(domain.Advisor, domain.Red, 0),
		pc(domain.Elephant, domain.Red, 0),
		pc(domain.Soldier, domain.Black, 0),
		pc(domain.Soldier, domain.Black, 1),
	}

	got := s.ChoosePlay(hand, TableView{Declared: 3, Captured: 0})
	play := domain.IdentifyPlay(got)
	if play.Type != domain.Pair {
		t.Fatalf("lead play = %v (%s), want the soldier pair", got, play.Type)
	}
	// The straight stays together for a later trick.
	for _, p := range got {
		if p.Kind != domain.Soldier {
			t.Fatalf("lead spent %s instead of a soldier", p.Label())
		}
	}
}
