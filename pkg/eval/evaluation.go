package eval

import (
	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

// knightMobility..queenMobility[attackedSquareCount] mirror the teacher's
// popcount-indexed mobility tables in eval/evaluation.go, trimmed to fixed
// constants since this repo does not carry the tuner.
var knightMobility = [9]Score{{-62, -81}, {-53, -56}, {-12, -31}, {-4, -16}, {3, 5}, {13, 11}, {22, 17}, {28, 20}, {33, 25}}
var bishopMobility = [14]Score{{-48, -59}, {-20, -23}, {16, -3}, {26, 13}, {38, 24}, {51, 42}, {55, 54}, {63, 57},
	{63, 65}, {68, 73}, {81, 78}, {81, 86}, {91, 88}, {98, 97}}
var rookMobility = [15]Score{{-60, -78}, {-20, -17}, {2, 23}, {3, 39}, {3, 70}, {11, 99}, {22, 103}, {31, 121},
	{40, 134}, {40, 139}, {41, 158}, {48, 164}, {57, 168}, {57, 169}, {62, 172}}
var queenMobility = [28]Score{{-30, -48}, {-12, -30}, {-8, -7}, {-9, 23}, {20, 23}, {23, 35}, {23, 61}, {35, 73},
	{38, 79}, {53, 92}, {64, 94}, {65, 104}, {65, 113}, {66, 120}, {67, 123}, {67, 126},
	{72, 133}, {72, 136}, {77, 140}, {79, 143}, {93, 148}, {108, 166}, {108, 170}, {108, 175},
	{110, 183}, {114, 184}, {114, 184}, {116, 192}}

var passedPawnBonus = [8]Score{{0, 0}, {0, 0}, {10, 28}, {17, 33}, {15, 41}, {62, 72}, {168, 177}, {276, 260}}

// kingMobility is EG-only (Mg always 0): spec's mobility rule excludes the
// king in the middlegame and includes it in the endgame, where an active
// king is a real asset.
var kingMobility = [9]Score{{0, -15}, {0, -10}, {0, -5}, {0, 0}, {0, 4}, {0, 8}, {0, 12}, {0, 16}, {0, 20}}

var (
	doubledPawnPenalty  = Score{-11, -4}
	isolatedPawnPenalty = Score{-5, -15}
	backwardPawnPenalty = Score{-9, -24}
	connectedPawnBonus  = Score{5, 1}
	knightOutpostBonus  = Score{31, 21}
	minorThreatBonus    = Score{27, 24}
	rookThreatBonus     = Score{24, 18}

	// King safety is MG-only per spec §4.6, so every penalty below has
	// Eg == 0.
	kingShieldRank1Penalty  = Score{10, 0}
	kingShieldRank2Penalty  = Score{5, 0}
	kingOpenFilePenalty     = Score{15, 0}
	kingHalfOpenFilePenalty = Score{25, 0}
	kingRingAttackPenalty   = Score{8, 0}
)

type evalContext struct {
	p        *position.Position
	occupied chess.Bitboard
	pawns    [2]chess.Bitboard
	mobArea  [2]chess.Bitboard // squares each side may usefully move into
	kingZone [2]chess.Bitboard
}

// Evaluate returns a score in centipawns from the perspective of the side
// to move: positive favors the side to move, negative favors the opponent.
func Evaluate(p *position.Position) int {
	var ctx evalContext
	ctx.p = p
	ctx.occupied = p.Occupied()
	ctx.pawns[chess.White] = p.PieceBitboard(chess.White, chess.Pawn)
	ctx.pawns[chess.Black] = p.PieceBitboard(chess.Black, chess.Pawn)

	for side := chess.White; side <= chess.Black; side++ {
		var opp = side.Opposite()
		var enemyPawnAttacks = pawnAttackSpan(ctx.pawns[opp], opp)
		ctx.mobArea[side] = ^(p.ByColor(side) &^ ctx.pawns[side]) &^ enemyPawnAttacks
		ctx.kingZone[side] = chess.KingAttacks[p.KingSquare(side)]
	}

	var score Score
	score.Add(pieceSquareTables(&ctx, chess.White))
	score.Sub(pieceSquareTables(&ctx, chess.Black))

	score.Add(mobility(&ctx, chess.White))
	score.Sub(mobility(&ctx, chess.Black))

	score.Add(pawnStructure(&ctx, chess.White))
	score.Sub(pawnStructure(&ctx, chess.Black))

	score.Add(kingSafety(&ctx, chess.White))
	score.Sub(kingSafety(&ctx, chess.Black))

	score.Add(threats(&ctx, chess.White))
	score.Sub(threats(&ctx, chess.Black))

	// Material, bishop pair, and tempo are flat scalars added after
	// tapering, not blended MG/EG terms (spec's "Total tapered = ...
	// Add material + bishop pair + tempo").
	var result = taper(score, phase(p))
	result += materialCount(p, chess.White) - materialCount(p, chess.Black)

	if chess.PopCount(p.PieceBitboard(chess.White, chess.Bishop)) >= 2 {
		result += bishopPairBonus
	}
	if chess.PopCount(p.PieceBitboard(chess.Black, chess.Bishop)) >= 2 {
		result -= bishopPairBonus
	}

	result += tempoBonus

	if p.SideToMove == chess.Black {
		result = -result
	}
	return result
}

func materialCount(p *position.Position, side chess.Side) int {
	var total = 0
	for pt := chess.Pawn; pt <= chess.Queen; pt++ {
		total += materialValue[pt] * chess.PopCount(p.PieceBitboard(side, pt))
	}
	return total
}

func phase(p *position.Position) int {
	var ph = totalPhase
	ph -= chess.PopCount(p.PieceBitboard(chess.White, chess.Knight)|p.PieceBitboard(chess.Black, chess.Knight)) * minorPhase
	ph -= chess.PopCount(p.PieceBitboard(chess.White, chess.Bishop)|p.PieceBitboard(chess.Black, chess.Bishop)) * minorPhase
	ph -= chess.PopCount(p.PieceBitboard(chess.White, chess.Rook)|p.PieceBitboard(chess.Black, chess.Rook)) * rookPhase
	ph -= chess.PopCount(p.PieceBitboard(chess.White, chess.Queen)|p.PieceBitboard(chess.Black, chess.Queen)) * queenPhase
	if ph < 0 {
		ph = 0
	}
	return ph
}

// taper blends Mg/Eg the same way pkg/eval/pesto's Evaluate does: phase
// runs from 0 (full starting material, pure Mg) up to totalPhase (bare
// kings and pawns, pure Eg).
func taper(s Score, ph int) int {
	return (s.Mg*(totalPhase-ph) + s.Eg*ph) / totalPhase
}

// pieceSquareTables sums the tapered MG/EG piece-square contribution for
// every piece of side, including the king's own table; king safety's
// shield/openness/ring-danger terms are separate from this and must not
// re-add the king's PST entry.
func pieceSquareTables(ctx *evalContext, side chess.Side) Score {
	var s Score
	for pt := chess.Pawn; pt <= chess.King; pt++ {
		var bb = ctx.p.PieceBitboard(side, pt)
		for b := bb; b != 0; b &= b - 1 {
			var sq = chess.ScanForward(b)
			var relSq = sq
			if side == chess.Black {
				relSq = chess.FlipSquare(sq)
			}
			s.Add(pst[pt][relSq])
		}
	}
	return s
}

func mobility(ctx *evalContext, side chess.Side) Score {
	var s Score
	var p = ctx.p
	for b := p.PieceBitboard(side, chess.Knight); b != 0; b &= b - 1 {
		var sq = chess.ScanForward(b)
		var count = chess.PopCount(chess.KnightAttacks[sq] & ctx.mobArea[side])
		s.Add(knightMobility[count])
	}
	for b := p.PieceBitboard(side, chess.Bishop); b != 0; b &= b - 1 {
		var sq = chess.ScanForward(b)
		var count = chess.PopCount(chess.BishopAttacks(sq, ctx.occupied) & ctx.mobArea[side])
		s.Add(bishopMobility[count])
	}
	for b := p.PieceBitboard(side, chess.Rook); b != 0; b &= b - 1 {
		var sq = chess.ScanForward(b)
		var count = chess.PopCount(chess.RookAttacks(sq, ctx.occupied) & ctx.mobArea[side])
		s.Add(rookMobility[count])
	}
	for b := p.PieceBitboard(side, chess.Queen); b != 0; b &= b - 1 {
		var sq = chess.ScanForward(b)
		var count = chess.PopCount(chess.QueenAttacks(sq, ctx.occupied) & ctx.mobArea[side])
		s.Add(queenMobility[count])
	}
	var knightOutposts = p.PieceBitboard(side, chess.Knight) & outpostMask(ctx, side) & pawnAttackSpan(ctx.pawns[side], side)
	s.AddN(knightOutpostBonus, chess.PopCount(knightOutposts))

	// King mobility is MG-excluded, EG-only, per spec's mobility rule.
	for b := p.PieceBitboard(side, chess.King); b != 0; b &= b - 1 {
		var sq = chess.ScanForward(b)
		var count = chess.PopCount(chess.KingAttacks[sq] & ctx.mobArea[side])
		s.Add(kingMobility[count])
	}
	return s
}

// outpostMask is ranks 4-6 counted from side's own back rank (ranks 4-6 for
// White, 5-3 for Black) across every file, where a knight counts as an
// outpost.
func outpostMask(ctx *evalContext, side chess.Side) chess.Bitboard {
	if side == chess.White {
		return chess.Rank4Mask | chess.Rank5Mask | chess.Rank6Mask
	}
	return chess.Rank5Mask | chess.Rank4Mask | chess.Rank3Mask
}

func pawnAttackSpan(pawns chess.Bitboard, side chess.Side) chess.Bitboard {
	if side == chess.White {
		return chess.UpLeft(pawns) | chess.UpRight(pawns)
	}
	return chess.DownLeft(pawns) | chess.DownRight(pawns)
}

func pawnStructure(ctx *evalContext, side chess.Side) Score {
	var s Score
	var own, opp = ctx.pawns[side], ctx.pawns[side.Opposite()]

	for b := own; b != 0; b &= b - 1 {
		var sq = chess.ScanForward(b)
		var file, rank = chess.File(sq), chess.Rank(sq)

		var sameFile = own & chess.FileMask[file] &^ chess.SquareMask[sq]
		if sameFile != 0 {
			s.Add(doubledPawnPenalty)
		}

		var adjacentFiles chess.Bitboard
		if file > 0 {
			adjacentFiles |= chess.FileMask[file-1]
		}
		if file < 7 {
			adjacentFiles |= chess.FileMask[file+1]
		}
		if own&adjacentFiles == 0 {
			s.Add(isolatedPawnPenalty)
		} else if chess.PawnAttacks[side.Opposite()][sq]&own != 0 {
			s.Add(connectedPawnBonus)
		} else if isBackward(ctx, sq, side) {
			s.Add(backwardPawnPenalty)
		}

		if isPassed(ctx, sq, side, opp) {
			var relRank = rank
			if side == chess.Black {
				relRank = 7 - rank
			}
			s.Add(passedPawnBonus[relRank])
		}
	}
	return s
}

func isBackward(ctx *evalContext, sq int, side chess.Side) bool {
	var stopSquare = sq
	if side == chess.White {
		stopSquare += 8
	} else {
		stopSquare -= 8
	}
	if stopSquare < 0 || stopSquare > 63 {
		return false
	}
	return chess.PawnAttacks[side.Opposite()][stopSquare]&ctx.pawns[side.Opposite()] != 0
}

func isPassed(ctx *evalContext, sq int, side chess.Side, enemyPawns chess.Bitboard) bool {
	var file = chess.File(sq)
	var front chess.Bitboard
	if side == chess.White {
		front = chess.UpFill(chess.SquareMask[sq]) &^ chess.SquareMask[sq]
	} else {
		front = chess.DownFill(chess.SquareMask[sq]) &^ chess.SquareMask[sq]
	}
	var blockMask = front & (chess.FileMask[file] |
		fileOrEmpty(file-1) | fileOrEmpty(file+1))
	return blockMask&enemyPawns == 0
}

func fileOrEmpty(file int) chess.Bitboard {
	if file < 0 || file > 7 {
		return 0
	}
	return chess.FileMask[file]
}

// kingSafety is entirely MG (every term above carries Eg == 0): shield
// (missing pawns on the two ranks ahead of the king, rank-1 weighted more
// than rank-2), near-file openness (open/half-open penalty on the king's
// own file and its two neighbors), and king-ring danger (a penalty per
// enemy-attacked square of the king's 8-neighborhood). The king's own PST
// entry is scored once, by pieceSquareTables; it is not repeated here.
func kingSafety(ctx *evalContext, side chess.Side) Score {
	var s Score
	var kingSq = ctx.p.KingSquare(side)
	var file, rank = chess.File(kingSq), chess.Rank(kingSq)

	var forward = 1
	if side == chess.Black {
		forward = -1
	}
	var rank1, rank2 = rank+forward, rank+2*forward

	for f := chess.Max(0, file-1); f <= chess.Min(7, file+1); f++ {
		if rank1 >= 0 && rank1 <= 7 && ctx.pawns[side]&chess.SquareMask[chess.MakeSquare(f, rank1)] == 0 {
			s.Sub(kingShieldRank1Penalty)
		}
		if rank2 >= 0 && rank2 <= 7 && ctx.pawns[side]&chess.SquareMask[chess.MakeSquare(f, rank2)] == 0 {
			s.Sub(kingShieldRank2Penalty)
		}

		var friendly = ctx.pawns[side] & chess.FileMask[f]
		var enemy = ctx.pawns[side.Opposite()] & chess.FileMask[f]
		if friendly == 0 {
			if enemy == 0 {
				s.Sub(kingOpenFilePenalty)
			} else {
				s.Sub(kingHalfOpenFilePenalty)
			}
		}
	}

	var attackedRingSquares = 0
	for b := ctx.kingZone[side]; b != 0; b &= b - 1 {
		if ctx.p.IsSquareAttackedBy(chess.ScanForward(b), side.Opposite()) {
			attackedRingSquares++
		}
	}
	s.AddN(kingRingAttackPenalty, -attackedRingSquares)
	return s
}

// threats scores pawns and minor pieces attacking a higher-value enemy
// piece, grounded on eval/evaluation.go's ThreatPawn/ThreatPiece family.
func threats(ctx *evalContext, side chess.Side) Score {
	var s Score
	var p = ctx.p
	var opp = side.Opposite()
	var oppNonPawns = p.ByColor(opp) &^ p.PieceBitboard(opp, chess.Pawn) &^ p.PieceBitboard(opp, chess.King)

	var pawnAttacks = pawnAttackSpan(ctx.pawns[side], side)
	s.AddN(minorThreatBonus, chess.PopCount(pawnAttacks&oppNonPawns))

	var minorAttacks chess.Bitboard
	for b := p.PieceBitboard(side, chess.Knight); b != 0; b &= b - 1 {
		minorAttacks |= chess.KnightAttacks[chess.ScanForward(b)]
	}
	for b := p.PieceBitboard(side, chess.Bishop); b != 0; b &= b - 1 {
		minorAttacks |= chess.BishopAttacks(chess.ScanForward(b), ctx.occupied)
	}
	var rooksAndQueens = p.PieceBitboard(opp, chess.Rook) | p.PieceBitboard(opp, chess.Queen)
	s.AddN(rookThreatBonus, chess.PopCount(minorAttacks&rooksAndQueens))

	return s
}
