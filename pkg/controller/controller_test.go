package controller

import (
	"testing"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
)

func TestNewGameStartsInPlayerTurnWithNoResult(t *testing.T) {
	var c = NewController(1)
	c.NewGame([2]PlayerType{Human, Human}, TimeControl{})
	if c.GetResult() != Ongoing {
		t.Errorf("GetResult() = %v, want Ongoing", c.GetResult())
	}
	if c.GetPositionString() == "" {
		t.Errorf("GetPositionString() returned empty string")
	}
}

func TestMakeUserMoveAppliesALegalMove(t *testing.T) {
	var c = NewController(1)
	c.NewGame([2]PlayerType{Human, Human}, TimeControl{})
	if !c.MakeUserMove(chess.E2, chess.E4, 0) {
		t.Fatalf("MakeUserMove(e2e4) = false, want true")
	}
	var want = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR"
	if got := c.GetPositionString(); got != want {
		t.Errorf("GetPositionString() after e2e4 = %q, want %q", got, want)
	}
}

func TestMakeUserMoveRejectsIllegalMove(t *testing.T) {
	var c = NewController(1)
	c.NewGame([2]PlayerType{Human, Human}, TimeControl{})
	if c.MakeUserMove(chess.E2, chess.E5, 0) {
		t.Fatalf("MakeUserMove(e2e5) = true, want false (a pawn can't advance three squares)")
	}
}

func TestMakeUserMoveRequiresPromotionCodeAtTheLastRank(t *testing.T) {
	var c = NewController(1)
	if !c.LoadPosition("4k3/P7/8/8/8/8/8/4K3", BoardEPNoneForTest, false, false, false, false, 0, [2]PlayerType{Human, Human}, TimeControl{}) {
		t.Fatalf("LoadPosition failed")
	}
	if c.MakeUserMove(chess.A7, chess.A8, 0) {
		t.Errorf("MakeUserMove(a7a8, no promotion code) = true, want false")
	}
	if !c.MakeUserMove(chess.A7, chess.A8, 1) {
		t.Errorf("MakeUserMove(a7a8q) = false, want true")
	}
}

func TestMakeUserMoveRejectedWhileNotPlayerTurn(t *testing.T) {
	var c = NewController(1)
	c.NewGame([2]PlayerType{Human, Human}, TimeControl{})
	c.state = EngineThinking
	if c.MakeUserMove(chess.E2, chess.E4, 0) {
		t.Errorf("MakeUserMove while EngineThinking = true, want false")
	}
}

func TestRequestLegalMaskMatchesPawnPushSquares(t *testing.T) {
	var c = NewController(1)
	c.NewGame([2]PlayerType{Human, Human}, TimeControl{})
	var mask = c.RequestLegalMask(chess.E2)
	if mask&(1<<chess.E3) == 0 || mask&(1<<chess.E4) == 0 {
		t.Errorf("legal mask for e2 pawn = %064b, want e3 and e4 set", mask)
	}
	if mask&(1<<chess.E5) != 0 {
		t.Errorf("legal mask for e2 pawn should not include e5")
	}
}

func TestCheckmateEndsTheGame(t *testing.T) {
	var c = NewController(1)
	// One move from mate: the loaded position is still ongoing, and
	// Ra1-a8# ends the game through checkTerminal after the move.
	if !c.LoadPosition("6k1/5ppp/8/8/8/8/8/R5K1", BoardEPNoneForTest, false, false, false, false, 0, [2]PlayerType{Human, Human}, TimeControl{}) {
		t.Fatalf("LoadPosition failed")
	}
	if c.GetResult() != Ongoing {
		t.Fatalf("position is not yet mated, want Ongoing, got %v", c.GetResult())
	}
	if !c.MakeUserMove(chess.A1, chess.A8, 0) {
		t.Fatalf("MakeUserMove(Ra1-a8#) = false, want true")
	}
	if got := c.GetResult(); got != WhiteWon {
		t.Errorf("GetResult() after back-rank mate = %v, want WhiteWon", got)
	}
}

func TestSnapshotEncodesPiecesWithSpecCodes(t *testing.T) {
	var c = NewController(1)
	c.NewGame([2]PlayerType{Human, Human}, TimeControl{})
	var snap = c.Snapshot()
	if snap[chess.E1] != byte(chess.King) {
		t.Errorf("snapshot[e1] = %d, want %d (White king)", snap[chess.E1], chess.King)
	}
	if snap[chess.E8] != byte(chess.King)+6 {
		t.Errorf("snapshot[e8] = %d, want %d (Black king)", snap[chess.E8], byte(chess.King)+6)
	}
	if snap[chess.E4] != 0 {
		t.Errorf("snapshot[e4] = %d, want 0 (empty)", snap[chess.E4])
	}
}

func TestEngineRespondsToAHumanMoveWhenPairedAgainstTheEngine(t *testing.T) {
	var c = NewController(1)
	c.SetEngineLimits(2, 0, 0)
	c.NewGame([2]PlayerType{Human, Engine}, TimeControl{})
	if !c.MakeUserMove(chess.E2, chess.E4, 0) {
		t.Fatalf("MakeUserMove(e2e4) = false, want true")
	}
	c.WaitEngine()
	if got := c.GetPositionString(); got == "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Errorf("GetPositionString() unchanged after engine's turn, want Black to have moved")
	}
}

// BoardEPNoneForTest mirrors position.BoardEPNone without importing the
// position package directly into every test call site.
const BoardEPNoneForTest = 255
