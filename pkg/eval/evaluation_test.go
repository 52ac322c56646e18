package eval

import (
	"testing"

	"github.com/KorolyovAl/ChessBot/pkg/position"
)

func TestEvaluateInitialPositionTempoOnly(t *testing.T) {
	var p = position.InitialPosition()
	var score = Evaluate(p)
	if score < 8 || score > 12 {
		t.Errorf("initial position score = %d, want in [8,12] (tempo only)", score)
	}
}

func TestEvaluateCentralKnightOutscoresCornerKnightByAtLeast40(t *testing.T) {
	var central, err = position.Parse("4k3/8/8/8/3N4/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var corner, err2 = position.Parse("4k3/8/8/8/8/8/8/N3K3 w - - 0 1")
	if err2 != nil {
		t.Fatalf("Parse failed: %v", err2)
	}
	var diff = Evaluate(central) - Evaluate(corner)
	if diff < 40 {
		t.Errorf("central knight minus corner knight = %d, want >= 40", diff)
	}
}

func TestEvaluateOneExtraPawnRaisesScoreByAtLeast90(t *testing.T) {
	var withPawn, err = position.Parse("4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var withoutPawn, err2 = position.Parse("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err2 != nil {
		t.Fatalf("Parse failed: %v", err2)
	}
	var diff = Evaluate(withPawn) - Evaluate(withoutPawn)
	if diff < 90 {
		t.Errorf("one extra pawn raised score by %d, want >= 90", diff)
	}
}

func TestEvaluateE6PasserScoresHigherInEndgameThanMiddlegame(t *testing.T) {
	var endgame, err = position.Parse("4k3/8/4P3/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var middlegame, err2 = position.Parse("r2qk2r/8/4P3/8/8/8/8/R2QK2R w - - 0 1")
	if err2 != nil {
		t.Fatalf("Parse failed: %v", err2)
	}
	if Evaluate(endgame) <= Evaluate(middlegame) {
		t.Errorf("e6 passer should score higher with the board cleared to an endgame than with a middlegame's worth of material still on")
	}
}

func TestEvaluateRemovingShieldPawnLowersScore(t *testing.T) {
	var shielded, err = position.Parse("4k3/8/8/8/8/8/5PPP/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var gap, err2 = position.Parse("4k3/8/8/8/8/8/5P1P/6K1 w - - 0 1")
	if err2 != nil {
		t.Fatalf("Parse failed: %v", err2)
	}
	if Evaluate(gap) >= Evaluate(shielded) {
		t.Errorf("removing a king shield pawn should strictly lower the score")
	}
}
