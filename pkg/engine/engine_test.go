package engine

import (
	"testing"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

func TestSearchFindsBackRankMateInOne(t *testing.T) {
	var p, err = position.Parse("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var e = NewEngine(1)
	var result = e.Search(p, nil, SearchLimits{Depth: 3}, nil)

	if len(result.PV) == 0 {
		t.Fatal("Search returned an empty PV")
	}
	var want = chess.Move{From: chess.A1, To: chess.A8, MovingPiece: chess.Rook, MovingSide: chess.White, CapturedSide: chess.NoSide}
	if result.PV[0] != want {
		t.Errorf("PV[0] = %+v, want %+v", result.PV[0], want)
	}
	if result.Score < valueMate-100 {
		t.Errorf("Score = %d, want a near-mate score", result.Score)
	}
}

func TestSearchCapturesAHangingQueen(t *testing.T) {
	var p, err = position.Parse("4k3/8/8/8/3q4/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var e = NewEngine(1)
	var result = e.Search(p, nil, SearchLimits{Depth: 4}, nil)

	if len(result.PV) == 0 {
		t.Fatal("Search returned an empty PV")
	}
	var want = chess.Move{
		From: chess.D1, To: chess.D4, MovingPiece: chess.Rook, MovingSide: chess.White,
		CapturedPiece: chess.Queen, CapturedSide: chess.Black, Flag: chess.Capture,
	}
	if result.PV[0] != want {
		t.Errorf("PV[0] = %+v, want %+v", result.PV[0], want)
	}
	if result.Score < 500 {
		t.Errorf("Score = %d, want a large material-winning score", result.Score)
	}
}

func TestSearchRespectsExternalStopCallback(t *testing.T) {
	var p = position.InitialPosition()
	var e = NewEngine(1)
	var calls int
	var stop = func() bool {
		calls++
		return calls > 1
	}
	var result = e.Search(p, nil, SearchLimits{Stop: stop}, nil)
	if len(result.PV) == 0 {
		t.Fatal("a stopped search should still return the last completed iteration's PV")
	}
}

func TestSearchDrawsOnFiftyMoveRule(t *testing.T) {
	var p, err = position.Parse("4k3/8/8/8/8/8/8/4K3 w - - 99 60")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var e = NewEngine(1)
	var result = e.Search(p, nil, SearchLimits{Depth: 2}, nil)
	if result.Score != valueDraw {
		t.Errorf("Score at the fifty-move boundary = %d, want %d (a bare-kings draw)", result.Score, valueDraw)
	}
}

func TestSearchDetectsThreefoldRepetitionFromGameHistory(t *testing.T) {
	var p, err = position.Parse("4k3/8/8/8/8/8/8/R3K3 w - - 4 30")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var gameHistory = map[uint64]int{p.Key: 2}
	// With an empty search path and a nonzero halfmove clock, isRepeat falls
	// back to the game history: a position already seen twice counts as a
	// third occurrence.
	var s = &searcher{pos: p, gameHistory: gameHistory}
	if !s.isRepeat(0) {
		t.Errorf("isRepeat(0) = false for a position seen twice in the game history, want true")
	}
	var e = NewEngine(1)
	// The root itself is never scored as a repetition, so the search still
	// returns a move to play.
	var result = e.Search(p, gameHistory, SearchLimits{Depth: 1}, nil)
	if len(result.PV) == 0 {
		t.Fatal("Search returned an empty PV")
	}
}

func TestEngineClearResetsTables(t *testing.T) {
	var e = NewEngine(1)
	var move = chess.Move{From: chess.E2, To: chess.E4, MovingPiece: chess.Pawn, MovingSide: chess.White}
	e.tt.Store(1, 5, 10, boundExact, move)
	e.history.Update(chess.White, move, 5)

	e.Clear()

	if result := e.tt.Probe(1, 5, -1000, 1000); result.hit {
		t.Errorf("Clear should empty the transposition table")
	}
	if got := e.history.Read(chess.White, move); got != 0 {
		t.Errorf("Clear should zero the history table, got %d", got)
	}
}
