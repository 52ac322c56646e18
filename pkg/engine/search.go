package engine

import (
	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/eval"
	"github.com/KorolyovAl/ChessBot/pkg/movegen"
	"github.com/KorolyovAl/ChessBot/pkg/position"
	"github.com/KorolyovAl/ChessBot/pkg/see"
)

type searchPlyState struct {
	cutoffs      cutoffKeys
	staticEval   int
	pv           []chess.Move
	moveBuf      [movegen.MaxMoves]chess.Move
	pathKey      uint64
	pathHalfmove int
}

// searcher holds one search's mutable state: CounterGo's pkg/engine/
// engine.go keeps a full Position snapshot per stack height so every
// thread can recurse independently; this engine is single-threaded and
// pkg/position is built around in-place Apply/Undo, so recursion threads
// through one shared *position.Position instead, pushing and popping move
// records exactly the way pkg/position's own tests exercise Apply/UndoMove.
type searcher struct {
	eng         *Engine
	pos         *position.Position
	stop        func() bool
	nodes       int64
	nodeLimit   int64
	aborted     bool
	gameHistory map[uint64]int
	stack       [maxPly]searchPlyState
}

func (s *searcher) checkTermination() bool {
	if s.aborted {
		return true
	}
	s.nodes++
	if s.nodeLimit > 0 && s.nodes >= s.nodeLimit {
		s.aborted = true
	} else if s.nodes&1023 == 0 && s.stop != nil && s.stop() {
		s.aborted = true
	}
	return s.aborted
}

func (s *searcher) hasNonPawnMaterial(side chess.Side) bool {
	var pieces = s.pos.ByColor(side) &^ s.pos.PieceBitboard(side, chess.Pawn) &^ s.pos.PieceBitboard(side, chess.King)
	return pieces != 0
}

// isRepeat mirrors CounterGo's pkg/engine/search.go isRepeat: walk the
// search path backwards until an irreversible move (halfmove clock reset)
// is crossed, then fall back to the pre-search game history multiset.
func (s *searcher) isRepeat(ply int) bool {
	if s.pos.HalfmoveClock == 0 {
		return false
	}
	for i := ply - 1; i >= 0; i-- {
		if s.stack[i].pathKey == s.pos.Key {
			return true
		}
		if s.stack[i].pathHalfmove == 0 {
			return false
		}
	}
	return s.gameHistory[s.pos.Key] >= 2
}

func (s *searcher) alphaBeta(alpha, beta, depth, ply int) int {
	if s.checkTermination() {
		return 0
	}
	if ply >= maxPly-1 {
		return eval.Evaluate(s.pos)
	}
	if depth <= 0 {
		return s.quiescence(alpha, beta, ply)
	}

	s.stack[ply].pathKey = s.pos.Key
	s.stack[ply].pathHalfmove = s.pos.HalfmoveClock
	s.stack[ply].pv = s.stack[ply].pv[:0]

	var rootNode = ply == 0
	var pvNode = beta-alpha > 1
	var alphaOrig = alpha

	if !rootNode && (s.pos.HalfmoveClock >= 100 || s.isRepeat(ply)) {
		return valueDraw
	}

	var ttResult = s.eng.tt.Probe(s.pos.Key, depth, alpha, beta)
	if ttResult.hit && ttResult.cutoff {
		return valueFromTT(ttResult.score, ply)
	}

	var isCheck = s.pos.IsCheck()
	var staticEval = eval.Evaluate(s.pos)
	s.stack[ply].staticEval = staticEval

	// Razoring: a quiet position this far below alpha is assumed to stay
	// that way; confirm with a cheap quiescence call instead of a full
	// search at the next depth down.
	if depth == 1 && !isCheck && !pvNode && staticEval+150 <= alpha {
		var score = s.quiescence(alpha-1, alpha, ply)
		if score <= alpha-1 {
			return score
		}
	}

	if !rootNode && depth >= 3 && !isCheck && s.hasNonPawnMaterial(s.pos.SideToMove) {
		var u = s.pos.ApplyNull()
		var score = -s.alphaBeta(-beta, -beta+1, depth-1-2, ply+1)
		s.pos.UndoNull(u)
		if s.aborted {
			return 0
		}
		if score >= beta {
			return score
		}
	}

	var moves = movegen.GenerateLegal(s.pos, s.stack[ply].moveBuf[:0])
	if len(moves) == 0 {
		if isCheck {
			return lossIn(ply)
		}
		return valueDraw
	}

	var ctx = orderingContext{
		ttMove:  ttResult.move,
		cutoffs: s.stack[ply].cutoffs,
		history: &s.eng.history,
		side:    s.pos.SideToMove,
	}
	orderMoves(s.pos, moves, ctx)

	var best = -valueInfinity
	var bestMove chess.Move
	var quietIndex = 0

	for idx, m := range moves {
		var isNoisy = isCaptureOrPromotion(m)
		var isTTMove = ctx.ttMove.matches(m)

		if isNoisy && depth <= 2 && idx != 0 && !isTTMove {
			if see.Capture(s.pos, m) < 0 {
				continue
			}
		}

		var u = s.pos.Apply(m)
		var givesCheck = s.pos.IsCheck()
		var safeCheck = givesCheck && see.On(s.pos, m.To, m.MovingSide) >= 0

		if !isNoisy {
			quietIndex++

			if depth <= 3 && idx != 0 && !isTTMove && !safeCheck {
				var margin = depth * 100
				if staticEval+margin <= alpha {
					s.pos.UndoMove(u)
					continue
				}
			}

			if depth > 7 && !isTTMove && !safeCheck && quietIndex >= 3 &&
				quietIndex > 2+depth*depth/2 {
				s.pos.UndoMove(u)
				continue
			}
		}

		var score int
		switch {
		case idx == 0:
			score = -s.alphaBeta(-beta, -alpha, depth-1, ply+1)
		case !isNoisy && depth >= 3:
			score = -s.alphaBeta(-(alpha + 1), -alpha, depth-2, ply+1)
			if score > alpha {
				score = -s.alphaBeta(-beta, -alpha, depth-1, ply+1)
			}
		default:
			score = -s.alphaBeta(-(alpha + 1), -alpha, depth-1, ply+1)
			if score > alpha && score < beta {
				score = -s.alphaBeta(-beta, -alpha, depth-1, ply+1)
			}
		}

		s.pos.UndoMove(u)

		if s.aborted {
			return 0
		}

		if score >= beta {
			if !isNoisy {
				s.stack[ply].cutoffs.update(m)
				s.eng.history.Update(m.MovingSide, m, depth)
			}
			s.eng.tt.Store(s.pos.Key, depth, valueToTT(score, ply), boundLower, m)
			return score
		}

		if score > best {
			best = score
			bestMove = m
			if score > alpha {
				alpha = score
				s.stack[ply].pv = append(s.stack[ply].pv[:0], m)
				s.stack[ply].pv = append(s.stack[ply].pv, s.stack[ply+1].pv...)
			}
		}
	}

	var b = boundUpper
	if best > alphaOrig {
		b = boundExact
	}
	s.eng.tt.Store(s.pos.Key, depth, valueToTT(best, ply), b, bestMove)

	return best
}

func (s *searcher) quiescence(alpha, beta, ply int) int {
	if s.checkTermination() {
		return 0
	}
	if ply >= maxPly-1 {
		return eval.Evaluate(s.pos)
	}
	s.stack[ply].pv = s.stack[ply].pv[:0]

	var isCheck = s.pos.IsCheck()
	var standPat int
	var best = -valueInfinity
	if !isCheck {
		standPat = eval.Evaluate(s.pos)
		best = standPat
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	var moves []chess.Move
	if isCheck {
		moves = movegen.GenerateLegal(s.pos, s.stack[ply].moveBuf[:0])
		if len(moves) == 0 {
			return lossIn(ply)
		}
	} else {
		moves = movegen.GenerateLegalCaptures(s.pos, s.stack[ply].moveBuf[:0])
	}

	var ctx = orderingContext{ttMove: ttMove{from: chess.SquareNone}, history: &s.eng.history, side: s.pos.SideToMove}
	orderMoves(s.pos, moves, ctx)

	for _, m := range moves {
		if !isCheck {
			if standPat+seeValue[m.CapturedPiece]+90 < alpha {
				continue
			}
			if !m.Flag.IsPromotion() && see.Capture(s.pos, m) < 0 {
				continue
			}
		}

		var u = s.pos.Apply(m)
		var score = -s.quiescence(-beta, -alpha, ply+1)
		s.pos.UndoMove(u)

		if s.aborted {
			return 0
		}

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				s.stack[ply].pv = append(s.stack[ply].pv[:0], m)
				s.stack[ply].pv = append(s.stack[ply].pv, s.stack[ply+1].pv...)
				if alpha >= beta {
					break
				}
			}
		}
	}

	return best
}
