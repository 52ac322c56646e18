package engine

import (
	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/movegen"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

// Engine bundles the tables a search needs across iterations: a
// transposition table and a history table, both long-lived so later
// searches benefit from earlier ones, grounded on CounterGo's pkg/engine/
// engine.go Engine type. CounterGo's Engine additionally owns a pool of
// per-thread search stacks for lazy SMP; this engine runs one search at a
// time, so that pool collapses to the single *searcher each Search call
// builds.
type Engine struct {
	tt      *transpositionTable
	history historyTable
}

// NewEngine allocates a transposition table sized hashMegabytes and an
// empty history table, mirroring CounterGo's NewEngine constructor.
func NewEngine(hashMegabytes int) *Engine {
	return &Engine{tt: newTranspositionTable(hashMegabytes)}
}

// Clear resets both tables, used between games so stale entries from a
// previous game never leak into a new one's search.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.history.Clear()
}

// SearchLimits bounds one search call: Stop is polled periodically and
// should return true once the allotted time is spent; NodeLimit caps the
// node count when nonzero; Depth caps the iterative-deepening depth when
// nonzero (0 means search to MaxSearchDepth).
type SearchLimits struct {
	Stop      func() bool
	NodeLimit int64
	Depth     int
}

// SearchResult reports one completed iteration of an iterative-deepening
// search; an iteration cut short by a stop is discarded.
type SearchResult struct {
	Depth int
	Score int
	PV    []chess.Move
	Nodes int64
}

// MaxSearchDepth is the iterative-deepening ceiling; comfortably beyond
// what a game-length time budget ever reaches in practice.
const MaxSearchDepth = 64

// Info is called once per completed iteration so a caller can report
// search progress (depth, score, PV, node count) the way a UCI frontend
// would; onInfo may be nil.
type Info func(SearchResult)

// Search runs iterative deepening from pos, using gameHistory to extend
// repetition detection across the moves already played this game (keyed
// by position.Key, valued by occurrence count), and returns the result of
// the last fully completed iteration, or a zero SearchResult (empty PV) if
// the search stops before depth 1 completes. Grounded on
// CounterGo's pkg/engine/search.go iterativeDeepening/aspirationWindow,
// simplified to this spec's single-fallback aspiration window (one
// re-search at the full window on failure, rather than CounterGo's
// widen-by-stages retry).
func (e *Engine) Search(pos *position.Position, gameHistory map[uint64]int, limits SearchLimits, onInfo Info) SearchResult {
	var s = &searcher{
		eng:         e,
		pos:         pos,
		stop:        limits.Stop,
		nodeLimit:   limits.NodeLimit,
		gameHistory: gameHistory,
	}

	var maxDepth = limits.Depth
	if maxDepth <= 0 || maxDepth > MaxSearchDepth {
		maxDepth = MaxSearchDepth
	}

	var result SearchResult
	var score int

	for depth := 1; depth <= maxDepth; depth++ {
		var window = 25
		if depth > 4 {
			window = 15
		}
		var iterationScore = s.searchAspirated(score, window, depth)

		if s.aborted {
			break
		}

		score = iterationScore
		result = SearchResult{
			Depth: depth,
			Score: score,
			PV:    append([]chess.Move(nil), s.stack[0].pv...),
			Nodes: s.nodes,
		}
		if onInfo != nil {
			onInfo(result)
		}

		if score >= winIn(maxPly) || score <= lossIn(maxPly) {
			break
		}
	}

	return result
}

// searchAspirated runs one iterative-deepening iteration with a window
// centered on prevScore, widened to the full range on failure, per spec's
// aspiration-window rule.
func (s *searcher) searchAspirated(prevScore, window, depth int) int {
	if depth == 1 {
		return s.alphaBeta(-valueInfinity, valueInfinity, depth, 0)
	}

	var alpha = prevScore - window
	var beta = prevScore + window
	var score = s.alphaBeta(alpha, beta, depth, 0)
	if s.aborted {
		return score
	}
	if score <= alpha || score >= beta {
		score = s.alphaBeta(-valueInfinity, valueInfinity, depth, 0)
	}
	return score
}

// GenRootMoves exposes a position's legal move list, primarily useful to
// a controller listing legal moves without duplicating move generation.
func GenRootMoves(pos *position.Position) []chess.Move {
	return movegen.GenerateLegal(pos, make([]chess.Move, 0, movegen.MaxMoves))
}
