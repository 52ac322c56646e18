package engine

import (
	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/position"
	"github.com/KorolyovAl/ChessBot/pkg/see"
)

// seeValue repeats the see package's piece values for MVV-LVA so a capture's
// ordering priority and its pruning decision agree on what a piece is
// worth; eval's tapered Score values would answer a different question.
var seeValue = [7]int{
	chess.NoPieceType: 0,
	chess.Pawn:         100,
	chess.Knight:       320,
	chess.Bishop:        330,
	chess.Rook:          500,
	chess.Queen:         900,
	chess.King:          20000,
}

var promotionPriority = map[chess.PieceType]int{
	chess.Queen:  900000,
	chess.Rook:   880000,
	chess.Bishop: 870000,
	chess.Knight: 870000,
}

// orderingContext bundles the per-node inputs move priority depends on,
// grounded on CounterGo's moveIterator (transMove/killer1/killer2/history)
// but scoring each move to an explicit priority integer per spec §4.8
// instead of CounterGo's ad hoc sortTableKeyImportant tiers.
type orderingContext struct {
	ttMove  ttMove
	cutoffs cutoffKeys
	history *historyTable
	side    chess.Side
}

func movePriority(p *position.Position, m chess.Move, ctx orderingContext) int {
	if ctx.ttMove.matches(m) {
		return 1000000
	}
	if m.Flag.IsPromotion() {
		return promotionPriority[m.Flag.PromotionPieceType()]
	}
	if m.Flag == chess.EnPassantCapture {
		return 860000
	}
	if m.IsCapture() {
		var victim = seeValue[m.CapturedPiece]
		var attacker = seeValue[m.MovingPiece]
		return 500000 + (victim - attacker) + clamp(see.Capture(p, m), -500, 500)
	}
	if first, second := ctx.cutoffs.matches(m); first {
		return 300000
	} else if second {
		return 290000
	}
	return 100000 + clamp(ctx.history.Read(ctx.side, m), 0, 16384)
}

// orderMoves scores every move and insertion-sorts the whole list in place
// by descending priority; CounterGo's moveiterator.go defers the sort of the
// tail until the top move is consumed (moveToTop then sortMoves once),
// chasing cutoffs on the first move without paying for a full sort when
// the search stops early. This engine's search loop always wants the full
// ordering up front (its pruning rules key off move_index), so it sorts
// immediately with the same insertion sort CounterGo's sortMoves uses —
// cheap for the small move counts a chess position produces.
func orderMoves(p *position.Position, moves []chess.Move, ctx orderingContext) {
	var keys = make([]int, len(moves))
	for i, m := range moves {
		keys[i] = movePriority(p, m, ctx)
	}
	for i := 1; i < len(moves); i++ {
		var j, m, k = i, moves[i], keys[i]
		for ; j > 0 && keys[j-1] < k; j-- {
			moves[j] = moves[j-1]
			keys[j] = keys[j-1]
		}
		moves[j] = m
		keys[j] = k
	}
}
