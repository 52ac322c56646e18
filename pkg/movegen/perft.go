package movegen

import (
	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

// Perft counts the leaf positions reachable in exactly depth plies from p,
// walking the pseudo-legal generator and discarding moves that leave the
// mover's own king in check after Apply — the same legality check
// GenerateLegal uses. Promoted out of a test helper into the package
// proper since move-count tables are a documented, reusable way to
// exercise the legal generator's invariants beyond the test suite itself.
func Perft(p *position.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	var pseudo = GeneratePseudoLegal(p, make([]chess.Move, 0, 64))
	for _, move := range pseudo {
		var undo = p.Apply(move)
		if p.IsLegal() {
			nodes += Perft(p, depth-1)
		}
		p.UndoMove(undo)
	}
	return nodes
}

// PerftDivide reports the leaf count contributed by each legal move at the
// root, keyed by its long-algebraic text — a debugging aid for locating
// which branch of the move tree diverges from a reference perft table.
func PerftDivide(p *position.Position, depth int) map[string]int64 {
	var result = make(map[string]int64)
	var pseudo = GeneratePseudoLegal(p, make([]chess.Move, 0, 64))
	for _, move := range pseudo {
		var undo = p.Apply(move)
		if p.IsLegal() {
			result[move.String()] = Perft(p, depth-1)
		}
		p.UndoMove(undo)
	}
	return result
}
