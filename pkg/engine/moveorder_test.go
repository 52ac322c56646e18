package engine

import (
	"testing"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/movegen"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

func TestOrderMovesPutsTTMoveFirst(t *testing.T) {
	var p, err = position.Parse("r3k2r/pppqppbp/2np1np1/8/3PP3/2N1BN2/PPP2PPP/R2QKB1R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var moves = movegen.GenerateLegal(p, make([]chess.Move, 0, movegen.MaxMoves))
	if len(moves) == 0 {
		t.Fatal("expected legal moves")
	}
	var target = moves[len(moves)-1]
	var ctx = orderingContext{ttMove: packTTMove(target), history: &historyTable{}}
	orderMoves(p, moves, ctx)
	if moves[0] != target {
		t.Errorf("orderMoves did not place the TT move first: got %+v, want %+v", moves[0], target)
	}
}

func TestOrderMovesRanksCapturesAboveQuietMoves(t *testing.T) {
	var p, err = position.Parse("4k3/8/8/3p4/8/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var moves = movegen.GenerateLegal(p, make([]chess.Move, 0, movegen.MaxMoves))
	var ctx = orderingContext{history: &historyTable{}}
	orderMoves(p, moves, ctx)
	if !moves[0].IsCapture() {
		t.Errorf("first move %+v should be the undefended rook capture", moves[0])
	}
}

func TestMovePriorityPromotionsOutrankPlainCaptures(t *testing.T) {
	var promo = chess.Move{
		From: chess.A7, To: chess.A8, MovingPiece: chess.Pawn, MovingSide: chess.White,
		Flag: chess.PromoteQueen,
	}
	var capture = chess.Move{
		From: chess.D1, To: chess.D5, MovingPiece: chess.Queen, MovingSide: chess.White,
		CapturedPiece: chess.Pawn, CapturedSide: chess.Black,
	}
	var p, err = position.Parse("4k3/P7/8/3p4/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var ctx = orderingContext{history: &historyTable{}}
	if movePriority(p, promo, ctx) <= movePriority(p, capture, ctx) {
		t.Errorf("queen promotion should outrank a queen-takes-pawn capture")
	}
}

func TestMovePriorityHistoryBreaksTiesAmongQuietMoves(t *testing.T) {
	var p = position.InitialPosition()
	var quiet1 = chess.Move{From: chess.B1, To: chess.C3, MovingPiece: chess.Knight, MovingSide: chess.White}
	var quiet2 = chess.Move{From: chess.G1, To: chess.F3, MovingPiece: chess.Knight, MovingSide: chess.White}

	var h historyTable
	h.Update(chess.White, quiet1, 6)

	var ctx = orderingContext{history: &h, side: chess.White}
	if movePriority(p, quiet1, ctx) <= movePriority(p, quiet2, ctx) {
		t.Errorf("quiet move with history should outrank one with none")
	}
}
