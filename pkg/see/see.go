// Package see implements static exchange evaluation: the material outcome
// of a forced sequence of captures on a single square, used by the search
// engine for move ordering and pruning.
package see

import (
	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

// pieceValue holds SEE-specific piece values, deliberately separate from
// pkg/eval's tapered material scores: the king carries a value large
// enough that a king "capture" can never look profitable, forbidding king
// trades in the exchange loop below.
var pieceValue = [7]int{
	chess.NoPieceType: 0,
	chess.Pawn:         100,
	chess.Knight:       320,
	chess.Bishop:       330,
	chess.Rook:         500,
	chess.Queen:        900,
	chess.King:         20000,
}

// exchangeState is a mutable snapshot of occupancy used to replay a capture
// sequence without touching the real position.
type exchangeState struct {
	occupied chess.Bitboard
	pieces   [2][7]chess.Bitboard
}

func newExchangeState(p *position.Position) exchangeState {
	var st exchangeState
	st.occupied = p.Occupied()
	for side := chess.White; side <= chess.Black; side++ {
		for pt := chess.Pawn; pt <= chess.King; pt++ {
			st.pieces[side][pt] = p.PieceBitboard(side, pt)
		}
	}
	return st
}

func (st *exchangeState) remove(side chess.Side, pt chess.PieceType, sq int) {
	st.pieces[side][pt] = chess.ClearBit(st.pieces[side][pt], sq)
	st.occupied = chess.ClearBit(st.occupied, sq)
}

func (st *exchangeState) place(side chess.Side, pt chess.PieceType, sq int) {
	st.pieces[side][pt] = chess.SetBit(st.pieces[side][pt], sq)
	st.occupied = chess.SetBit(st.occupied, sq)
}

func (st *exchangeState) pieceOn(sq int) (chess.PieceType, chess.Side) {
	for side := chess.White; side <= chess.Black; side++ {
		for pt := chess.Pawn; pt <= chess.King; pt++ {
			if chess.TestBit(st.pieces[side][pt], sq) {
				return pt, side
			}
		}
	}
	return chess.NoPieceType, chess.NoSide
}

// attackersTo collects side's attackers of sq against the current occupancy;
// sliders are found by scanning a ray from sq and checking the nearest
// blocker, so captures that remove a piece reveal x-ray attackers for free.
func (st *exchangeState) attackersTo(sq int, side chess.Side) chess.Bitboard {
	var bishops = st.pieces[side][chess.Bishop] | st.pieces[side][chess.Queen]
	var rooks = st.pieces[side][chess.Rook] | st.pieces[side][chess.Queen]
	return (chess.PawnAttacks[side.Opposite()][sq] & st.pieces[side][chess.Pawn]) |
		(chess.KnightAttacks[sq] & st.pieces[side][chess.Knight]) |
		(chess.KingAttacks[sq] & st.pieces[side][chess.King]) |
		(chess.BishopAttacks(sq, st.occupied) & bishops) |
		(chess.RookAttacks(sq, st.occupied) & rooks)
}

func leastValuableAttacker(st *exchangeState, sq int, side chess.Side) (chess.PieceType, int) {
	var attackers = st.attackersTo(sq, side)
	for pt := chess.Pawn; pt <= chess.King; pt++ {
		if bb := st.pieces[side][pt] & attackers; bb != 0 {
			return pt, chess.ScanForward(bb)
		}
	}
	return chess.NoPieceType, chess.SquareNone
}

// kingCaptureLegal simulates side's king recapturing on sq and rejects it if
// the opponent would then attack sq; an illegal king recapture ends the
// exchange for side rather than stopping the whole evaluation.
func kingCaptureLegal(st *exchangeState, sq, kingFrom int, side chess.Side) bool {
	var saved = *st
	st.remove(side, chess.King, kingFrom)
	st.place(side, chess.King, sq)
	var attacked = st.attackersTo(sq, side.Opposite()) != 0
	*st = saved
	return !attacked
}

// runExchange replays the capture sequence on sq starting with side to move
// in the exchange, recording the value of the piece taken at each step.
func runExchange(st *exchangeState, sq int, side chess.Side) []int {
	var gains []int
	for {
		var attackerPt, from = leastValuableAttacker(st, sq, side)
		if attackerPt == chess.NoPieceType {
			break
		}
		if attackerPt == chess.King && !kingCaptureLegal(st, sq, from, side) {
			break
		}
		var victimPt, victimSide = st.pieceOn(sq)
		gains = append(gains, pieceValue[victimPt])
		if victimPt != chess.NoPieceType {
			st.remove(victimSide, victimPt, sq)
		}
		st.remove(side, attackerPt, from)
		st.place(side, attackerPt, sq)
		side = side.Opposite()
	}
	return gains
}

// exchangeValue collapses runExchange's gain sequence with the minimax
// identity gains[i] = -max(-gains[i], gains[i+1]) and returns the net
// material initiatingSide wins by starting the exchange on sq now.
func exchangeValue(st *exchangeState, sq int, initiatingSide chess.Side) int {
	var gains = runExchange(st, sq, initiatingSide)
	for i := len(gains) - 2; i >= 0; i-- {
		gains[i] = -chess.Max(-gains[i], gains[i+1])
	}
	if len(gains) == 0 {
		return 0
	}
	return gains[0]
}

// On estimates the material outcome, from sideThatLastMovedThere's point of
// view, if the opponent starts capturing on square in best play. A negative
// result means the piece currently on square is hanging.
func On(p *position.Position, square int, sideThatLastMovedThere chess.Side) int {
	if square == chess.SquareNone {
		return 0
	}
	var st = newExchangeState(p)
	if _, side := st.pieceOn(square); side == chess.NoSide {
		return 0
	}
	return -exchangeValue(&st, square, sideThatLastMovedThere.Opposite())
}

// Capture returns the exact material outcome of move, a capture, starting
// from the moving side. Non-captures return 0; callers must check legality
// and capture-ness separately.
func Capture(p *position.Position, move chess.Move) int {
	if !move.IsCapture() && move.Flag != chess.EnPassantCapture {
		return 0
	}

	var st = newExchangeState(p)
	var mover = move.MovingSide
	var capturedSq = move.To
	var capturedPt = move.CapturedPiece
	var capturedSide = move.CapturedSide
	if move.Flag == chess.EnPassantCapture {
		capturedPt = chess.Pawn
		capturedSide = mover.Opposite()
		if mover == chess.White {
			capturedSq = move.To - 8
		} else {
			capturedSq = move.To + 8
		}
	}
	if capturedPt == chess.NoPieceType {
		return 0
	}
	var victimValue = pieceValue[capturedPt]

	st.remove(capturedSide, capturedPt, capturedSq)
	st.remove(mover, move.MovingPiece, move.From)
	var attackerOnTarget = move.MovingPiece
	if move.Flag.IsPromotion() {
		attackerOnTarget = move.Flag.PromotionPieceType()
	}
	st.place(mover, attackerOnTarget, move.To)

	var tail = exchangeValue(&st, move.To, mover.Opposite())
	return victimValue - tail
}
