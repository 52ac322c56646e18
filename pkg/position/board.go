// Package position implements the board representation: bitboard storage,
// Zobrist hashing, a board-string parser, and in-place Apply/Undo move
// application.
package position

import (
	"fmt"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
)

// Castle rights bit flags, one per rook/king pairing that can still castle.
const (
	WhiteKingSide = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

// Position is the mutable board state. Apply/Undo mutate it in place; there
// is no copy-on-move path, matching the spec's explicit re-architecture of
// the teacher's copy-on-move MakeMove.
type Position struct {
	ByType [7]chess.Bitboard // indexed by chess.PieceType; index 0 (NoPieceType) unused
	White  chess.Bitboard
	Black  chess.Bitboard

	SideToMove    chess.Side
	CastleRights  int
	EPSquare      int
	HalfmoveClock int
	FullmoveCount int

	Key      uint64
	Checkers chess.Bitboard
}

func (p *Position) Occupied() chess.Bitboard {
	return p.White | p.Black
}

func (p *Position) ByColor(side chess.Side) chess.Bitboard {
	if side == chess.White {
		return p.White
	}
	return p.Black
}

func (p *Position) PieceBitboard(side chess.Side, pt chess.PieceType) chess.Bitboard {
	return p.ByType[pt] & p.ByColor(side)
}

// PieceOn returns the piece type and side occupying sq, or
// (chess.NoPieceType, chess.NoSide) if sq is empty.
func (p *Position) PieceOn(sq int) (chess.PieceType, chess.Side) {
	var bb = chess.SquareMask[sq]
	if p.Occupied()&bb == 0 {
		return chess.NoPieceType, chess.NoSide
	}
	var side = chess.Black
	if p.White&bb != 0 {
		side = chess.White
	}
	for pt := chess.Pawn; pt <= chess.King; pt++ {
		if p.ByType[pt]&bb != 0 {
			return pt, side
		}
	}
	panic(fmt.Sprintf("position: occupied square %s has no piece type set", chess.SquareName(sq)))
}

func (p *Position) KingSquare(side chess.Side) int {
	return chess.ScanForward(p.PieceBitboard(side, chess.King))
}

func (p *Position) attackersTo(sq int) chess.Bitboard {
	var occ = p.Occupied()
	return (chess.PawnAttacks[chess.Black][sq] & p.ByType[chess.Pawn] & p.White) |
		(chess.PawnAttacks[chess.White][sq] & p.ByType[chess.Pawn] & p.Black) |
		(chess.KnightAttacks[sq] & p.ByType[chess.Knight]) |
		(chess.BishopAttacks(sq, occ) & (p.ByType[chess.Bishop] | p.ByType[chess.Queen])) |
		(chess.RookAttacks(sq, occ) & (p.ByType[chess.Rook] | p.ByType[chess.Queen])) |
		(chess.KingAttacks[sq] & p.ByType[chess.King])
}

func (p *Position) computeCheckers() chess.Bitboard {
	var kingSq = p.KingSquare(p.SideToMove)
	return p.attackersTo(kingSq) & p.ByColor(p.SideToMove.Opposite())
}

// IsSquareAttackedBy reports whether any piece of side attacks sq on the
// current board; used by the legal generator for king-safety checks that
// don't need the full attackersTo set.
func (p *Position) IsSquareAttackedBy(sq int, side chess.Side) bool {
	var attackers = p.ByColor(side)
	if chess.PawnAttacks[side.Opposite()][sq]&p.ByType[chess.Pawn]&attackers != 0 {
		return true
	}
	if chess.KnightAttacks[sq]&p.ByType[chess.Knight]&attackers != 0 {
		return true
	}
	if chess.KingAttacks[sq]&p.ByType[chess.King]&attackers != 0 {
		return true
	}
	var occ = p.Occupied()
	if chess.BishopAttacks(sq, occ)&(p.ByType[chess.Bishop]|p.ByType[chess.Queen])&attackers != 0 {
		return true
	}
	if chess.RookAttacks(sq, occ)&(p.ByType[chess.Rook]|p.ByType[chess.Queen])&attackers != 0 {
		return true
	}
	return false
}

func (p *Position) IsCheck() bool {
	return p.Checkers != 0
}

// IsLegal reports whether the side NOT on move is safe from check — the
// condition that must hold after Apply for a pseudo-legal move to be legal.
func (p *Position) IsLegal() bool {
	var kingSq = p.KingSquare(p.SideToMove.Opposite())
	return !p.IsSquareAttackedBy(kingSq, p.SideToMove)
}

// SameBoard reports whether p and other share the same piece placement,
// side to move, castle rights and en-passant square (the halfmove clock is
// not compared). Threefold-repetition bookkeeping does not use it: the
// controller and the search count repetitions by Zobrist key.
func (p *Position) SameBoard(other *Position) bool {
	return p.White == other.White &&
		p.Black == other.Black &&
		p.ByType == other.ByType &&
		p.SideToMove == other.SideToMove &&
		p.CastleRights == other.CastleRights &&
		p.EPSquare == other.EPSquare
}

// DrawInsufficientMaterial resolves spec's open question on insufficient
// material: true for king vs king, king+minor vs king, and king+two knights
// vs king. Any pawn, rook, or queen on the board, or bishop-vs-bishop with
// opposite or same color complex, rules it out along with any other combo.
func (p *Position) DrawInsufficientMaterial() bool {
	if p.ByType[chess.Pawn] != 0 || p.ByType[chess.Rook] != 0 || p.ByType[chess.Queen] != 0 {
		return false
	}
	var whiteMinors = chess.PopCount(p.PieceBitboard(chess.White, chess.Knight)) +
		chess.PopCount(p.PieceBitboard(chess.White, chess.Bishop))
	var blackMinors = chess.PopCount(p.PieceBitboard(chess.Black, chess.Knight)) +
		chess.PopCount(p.PieceBitboard(chess.Black, chess.Bishop))

	if whiteMinors == 0 && blackMinors == 0 {
		return true
	}
	if whiteMinors == 1 && blackMinors == 0 {
		return true
	}
	if whiteMinors == 0 && blackMinors == 1 {
		return true
	}
	if whiteMinors == 2 && blackMinors == 0 && chess.PopCount(p.PieceBitboard(chess.White, chess.Knight)) == 2 {
		return true
	}
	if blackMinors == 2 && whiteMinors == 0 && chess.PopCount(p.PieceBitboard(chess.Black, chess.Knight)) == 2 {
		return true
	}
	return false
}
