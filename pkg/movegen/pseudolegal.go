// Package movegen generates chess moves: a pseudo-legal generator that
// ignores pins on non-king moves, a legal generator that filters
// pseudo-legal moves through Apply/Undo, and a perft walker for exercising
// both.
package movegen

import (
	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

var whiteKingSideCastleMask = chess.SquareMask[chess.F1] | chess.SquareMask[chess.G1]
var whiteQueenSideCastleMask = chess.SquareMask[chess.B1] | chess.SquareMask[chess.C1] | chess.SquareMask[chess.D1]
var blackKingSideCastleMask = chess.SquareMask[chess.F8] | chess.SquareMask[chess.G8]
var blackQueenSideCastleMask = chess.SquareMask[chess.B8] | chess.SquareMask[chess.C8] | chess.SquareMask[chess.D8]

// GeneratePseudoLegal appends every pseudo-legal move to ml and returns the
// extended slice. A pseudo-legal move may leave the mover's own king in
// check if a pinned piece moved; GenerateLegal filters those out.
func GeneratePseudoLegal(p *position.Position, ml []chess.Move) []chess.Move {
	var side = p.SideToMove
	var other = side.Opposite()
	var own = p.ByColor(side)
	var enemy = p.ByColor(other)
	var occ = p.Occupied()

	var target = ^own
	if p.Checkers != 0 {
		var kingSq = p.KingSquare(side)
		var checkerSq = chess.ScanForward(p.Checkers)
		target = p.Checkers | chess.BetweenMask[checkerSq][kingSq]
	}

	ml = generatePawnMoves(p, ml, side, other, enemy, occ, target)
	ml = generatePieceMoves(p, ml, chess.Knight, side, occ, target)
	ml = generatePieceMoves(p, ml, chess.Bishop, side, occ, target)
	ml = generatePieceMoves(p, ml, chess.Rook, side, occ, target)
	ml = generatePieceMoves(p, ml, chess.Queen, side, occ, target)
	ml = generateKingMoves(p, ml, side, other, own, occ)

	return ml
}

func generatePieceMoves(p *position.Position, ml []chess.Move, pt chess.PieceType, side chess.Side, occ, target chess.Bitboard) []chess.Move {
	for fromBB := p.PieceBitboard(side, pt); fromBB != 0; fromBB &= fromBB - 1 {
		var from = chess.ScanForward(fromBB)
		for toBB := chess.PieceAttacks(pt, from, occ) & target; toBB != 0; toBB &= toBB - 1 {
			var to = chess.ScanForward(toBB)
			ml = append(ml, makeQuietOrCapture(p, pt, side, from, to))
		}
	}
	return ml
}

func generateKingMoves(p *position.Position, ml []chess.Move, side, other chess.Side, own, occ chess.Bitboard) []chess.Move {
	var from = p.KingSquare(side)
	for toBB := chess.KingAttacks[from] &^ own; toBB != 0; toBB &= toBB - 1 {
		var to = chess.ScanForward(toBB)
		ml = append(ml, makeQuietOrCapture(p, chess.King, side, from, to))
	}

	if side == chess.White {
		if p.CastleRights&position.WhiteKingSide != 0 &&
			occ&whiteKingSideCastleMask == 0 &&
			!p.IsSquareAttackedBy(chess.E1, other) &&
			!p.IsSquareAttackedBy(chess.F1, other) {
			ml = append(ml, chess.Move{From: chess.E1, To: chess.G1, MovingPiece: chess.King, MovingSide: side, CapturedSide: chess.NoSide, Flag: chess.CastleKingSideWhite})
		}
		if p.CastleRights&position.WhiteQueenSide != 0 &&
			occ&whiteQueenSideCastleMask == 0 &&
			!p.IsSquareAttackedBy(chess.E1, other) &&
			!p.IsSquareAttackedBy(chess.D1, other) {
			ml = append(ml, chess.Move{From: chess.E1, To: chess.C1, MovingPiece: chess.King, MovingSide: side, CapturedSide: chess.NoSide, Flag: chess.CastleQueenSideWhite})
		}
	} else {
		if p.CastleRights&position.BlackKingSide != 0 &&
			occ&blackKingSideCastleMask == 0 &&
			!p.IsSquareAttackedBy(chess.E8, other) &&
			!p.IsSquareAttackedBy(chess.F8, other) {
			ml = append(ml, chess.Move{From: chess.E8, To: chess.G8, MovingPiece: chess.King, MovingSide: side, CapturedSide: chess.NoSide, Flag: chess.CastleKingSideBlack})
		}
		if p.CastleRights&position.BlackQueenSide != 0 &&
			occ&blackQueenSideCastleMask == 0 &&
			!p.IsSquareAttackedBy(chess.E8, other) &&
			!p.IsSquareAttackedBy(chess.D8, other) {
			ml = append(ml, chess.Move{From: chess.E8, To: chess.C8, MovingPiece: chess.King, MovingSide: side, CapturedSide: chess.NoSide, Flag: chess.CastleQueenSideBlack})
		}
	}

	return ml
}

func makeQuietOrCapture(p *position.Position, pt chess.PieceType, side chess.Side, from, to int) chess.Move {
	var capturedPt, capturedSide = p.PieceOn(to)
	var flag = chess.NoFlag
	if capturedPt != chess.NoPieceType {
		flag = chess.Capture
	}
	return chess.Move{
		From:          from,
		To:            to,
		MovingPiece:   pt,
		MovingSide:    side,
		CapturedPiece: capturedPt,
		CapturedSide:  capturedSide,
		Flag:          flag,
	}
}

// generatePawnMoves handles pushes, double pushes, diagonal captures,
// promotions (quiet and capturing) and en-passant capture in one pass.
func generatePawnMoves(p *position.Position, ml []chess.Move, side, other chess.Side, enemy, occ, target chess.Bitboard) []chess.Move {
	var push int
	var startRank, promotingFromRank int
	if side == chess.White {
		push = 8
		startRank, promotingFromRank = chess.Rank2, chess.Rank7
	} else {
		push = -8
		startRank, promotingFromRank = chess.Rank7, chess.Rank2
	}

	if p.EPSquare != chess.SquareNone {
		var capturedPawnSquare = p.EPSquare - push
		if chess.TestBit(target, p.EPSquare) || chess.TestBit(target, capturedPawnSquare) {
			for fromBB := chess.PawnAttacks[other][p.EPSquare] & p.PieceBitboard(side, chess.Pawn); fromBB != 0; fromBB &= fromBB - 1 {
				var from = chess.ScanForward(fromBB)
				ml = append(ml, chess.Move{
					From:          from,
					To:            p.EPSquare,
					MovingPiece:   chess.Pawn,
					MovingSide:    side,
					CapturedPiece: chess.Pawn,
					CapturedSide:  other,
					Flag:          chess.EnPassantCapture,
				})
			}
		}
	}

	for fromBB := p.PieceBitboard(side, chess.Pawn); fromBB != 0; fromBB &= fromBB - 1 {
		var from = chess.ScanForward(fromBB)
		var rank = chess.Rank(from)
		var isPromoting = rank == promotingFromRank

		var to1 = from + push
		if !chess.TestBit(occ, to1) {
			if isPromoting {
				if chess.TestBit(target, to1) {
					ml = appendPromotions(ml, from, to1, side, chess.NoPieceType, chess.NoSide)
				}
			} else {
				if chess.TestBit(target, to1) {
					ml = append(ml, chess.Move{From: from, To: to1, MovingPiece: chess.Pawn, MovingSide: side, CapturedSide: chess.NoSide})
				}
				if rank == startRank {
					var to2 = from + 2*push
					if !chess.TestBit(occ, to2) && chess.TestBit(target, to2) {
						ml = append(ml, chess.Move{From: from, To: to2, MovingPiece: chess.Pawn, MovingSide: side, CapturedSide: chess.NoSide, Flag: chess.DoublePawnPush})
					}
				}
			}
		}

		for _, capTo := range pawnCaptureSquares(from, side) {
			if capTo < 0 || !chess.TestBit(enemy, capTo) || !chess.TestBit(target, capTo) {
				continue
			}
			var capturedPt, capturedSide = p.PieceOn(capTo)
			if isPromoting {
				ml = appendPromotions(ml, from, capTo, side, capturedPt, capturedSide)
			} else {
				ml = append(ml, chess.Move{
					From:          from,
					To:            capTo,
					MovingPiece:   chess.Pawn,
					MovingSide:    side,
					CapturedPiece: capturedPt,
					CapturedSide:  capturedSide,
					Flag:          chess.Capture,
				})
			}
		}
	}

	return ml
}

// pawnCaptureSquares returns the (up to two) diagonal capture targets for a
// pawn of side on from; -1 marks an edge where that diagonal doesn't exist.
func pawnCaptureSquares(from int, side chess.Side) [2]int {
	var file = chess.File(from)
	var result = [2]int{-1, -1}
	var rankDelta = 8
	if side == chess.Black {
		rankDelta = -8
	}
	if file > chess.FileA {
		result[0] = from + rankDelta - 1
	}
	if file < chess.FileH {
		result[1] = from + rankDelta + 1
	}
	return result
}

func appendPromotions(ml []chess.Move, from, to int, side chess.Side, capturedPt chess.PieceType, capturedSide chess.Side) []chess.Move {
	for _, promo := range [4]chess.MoveFlag{chess.PromoteQueen, chess.PromoteRook, chess.PromoteBishop, chess.PromoteKnight} {
		ml = append(ml, chess.Move{
			From:          from,
			To:            to,
			MovingPiece:   chess.Pawn,
			MovingSide:    side,
			CapturedPiece: capturedPt,
			CapturedSide:  capturedSide,
			Flag:          promo,
		})
	}
	return ml
}
