package movegen

import (
	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

// MaxMoves bounds the legal moves any one chess position can have (218 is
// the known maximum, with no extra headroom); search code uses it to size per-node move buffers once instead
// of letting append reallocate on every node.
const MaxMoves = 218

// GenerateLegal returns every legal move in p: each pseudo-legal move is
// applied, checked against IsLegal, and undone, mirroring how the teacher's
// MakeMove vets legality after the fact rather than computing pin masks
// up front.
func GenerateLegal(p *position.Position, ml []chess.Move) []chess.Move {
	var pseudo = GeneratePseudoLegal(p, make([]chess.Move, 0, 64))
	for _, move := range pseudo {
		var undo = p.Apply(move)
		if p.IsLegal() {
			ml = append(ml, move)
		}
		p.UndoMove(undo)
	}
	return ml
}

// GenerateLegalCaptures returns every legal capture in p, including en
// passant and capturing promotions; quiet promotion pushes are left out —
// the move set quiescence search works from once a node is
// not in check, grounded on the teacher's moveIteratorQS restricting itself
// to the same subset via position.GenerateCaptures.
func GenerateLegalCaptures(p *position.Position, ml []chess.Move) []chess.Move {
	var pseudo = GeneratePseudoLegal(p, make([]chess.Move, 0, 64))
	for _, move := range pseudo {
		if !move.IsCapture() && move.Flag != chess.EnPassantCapture {
			continue
		}
		var undo = p.Apply(move)
		if p.IsLegal() {
			ml = append(ml, move)
		}
		p.UndoMove(undo)
	}
	return ml
}

// HasLegalMove reports whether p has at least one legal move, used to tell
// checkmate/stalemate apart without building the full move list.
func HasLegalMove(p *position.Position) bool {
	var pseudo = GeneratePseudoLegal(p, make([]chess.Move, 0, 64))
	for _, move := range pseudo {
		var undo = p.Apply(move)
		var legal = p.IsLegal()
		p.UndoMove(undo)
		if legal {
			return true
		}
	}
	return false
}

// LegalMask returns, for every square, the bitboard of squares a piece on
// that square can legally move to — the boundary's on-legal-mask callback
// data.
func LegalMask(p *position.Position) [64]chess.Bitboard {
	var mask [64]chess.Bitboard
	for _, move := range GenerateLegal(p, make([]chess.Move, 0, 64)) {
		mask[move.From] = chess.SetBit(mask[move.From], move.To)
	}
	return mask
}
