// Package controller implements the thin game-controller façade spec §6
// describes: lifecycle (new game / load position), turn arbitration
// between a human and the engine, and terminal-result detection. It is
// the only public surface beyond the core primitives; rendering and
// event-plumbing stay with the excluded UI collaborator.
package controller

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/engine"
	"github.com/KorolyovAl/ChessBot/pkg/eval"
	"github.com/KorolyovAl/ChessBot/pkg/movegen"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

// PlayerType names who moves a side's pieces.
type PlayerType int

const (
	Human PlayerType = iota
	Engine
)

// State is the façade's turn-arbitration state machine: PlayerTurn ->
// EngineThinking -> PlayerTurn | GameOver. make_user_move is only honored
// in PlayerTurn; a caller reading the position while EngineThinking is
// racing the search goroutine, which the state machine exists to forbid.
type State int

const (
	PlayerTurn State = iota
	EngineThinking
	GameOver
)

// Result is the game-over classification get_result() reports.
type Result int

const (
	Ongoing Result = iota
	WhiteWon
	BlackWon
	DrawStalemate
	DrawFiftyMove
	DrawRepetition
	DrawInsufficientMaterial
)

// TimeControl is accepted at the boundary per spec §6 but never consulted:
// clocks are an explicit Non-goal, so every field here is advisory only.
type TimeControl struct {
	MaxTimeMs int
}

// Limits mirrors SetEngineLimits' contract: only Depth and MaxNodes are
// honored, matching spec §6's "only depth and nodes are honored by this
// specification; time is out of scope".
type Limits struct {
	MaxDepth int
	MaxNodes int64
}

// Controller owns the live game position, the shared search engine and
// transposition table, and the event-sink callbacks a UI collaborator
// would wire up. Grounded on spec §5's "controller owns the transposition
// table and reuses it across searches" and §6's façade method list; there
// is no teacher equivalent (CounterGo has no game-lifecycle layer, only a
// UCI loop, which this spec explicitly excludes), so the shape here is
// built directly from the façade contract rather than adapted from a
// teacher file.
type Controller struct {
	mu          sync.Mutex
	pos         *position.Position
	eng         *engine.Engine
	players     [2]PlayerType
	limits      Limits
	state       State
	result      Result
	gameHistory map[uint64]int
	stop        atomic.Bool
	thinking    sync.WaitGroup

	OnPosition   func(boardString string)
	OnMove       func(m chess.Move, halfmoveIndex int, evalCP int)
	OnSearchInfo func(depth, evalCP int, pvText string)
	OnBestMove   func(m chess.Move, pvText string)
	OnGameOver   func(result Result, reasonText string)
	OnLegalMask  func(square int, mask uint64)
}

// NewController allocates a controller with a hashMegabytes-sized
// transposition table, retained for the controller's lifetime per spec §5.
func NewController(hashMegabytes int) *Controller {
	return &Controller{
		eng:    engine.NewEngine(hashMegabytes),
		limits: Limits{MaxDepth: engine.MaxSearchDepth},
	}
}

// NewGame starts from the standard initial position. timeControl is
// accepted for boundary compatibility with spec §6's new_game(players,
// time_control) and otherwise ignored; see TimeControl.
func (c *Controller) NewGame(players [2]PlayerType, timeControl TimeControl) {
	c.mu.Lock()
	c.pos = position.InitialPosition()
	c.players = players
	c.state = PlayerTurn
	c.result = Ongoing
	c.gameHistory = map[uint64]int{c.pos.Key: 1}
	c.eng.Clear()
	c.mu.Unlock()

	c.notifyPosition()
	c.maybeStartEngineMove()
}

// LoadPosition builds a position from the boundary's explicit board
// fields (spec §6) and starts a game from it. On malformed input the
// previous position is left intact and false is returned, per spec §7.
// timeControl is accepted and ignored, as in NewGame.
func (c *Controller) LoadPosition(board string, epSquare int, whiteKingSide, whiteQueenSide, blackKingSide, blackQueenSide bool, moveCounter int, players [2]PlayerType, timeControl TimeControl) bool {
	var p, err = position.ParseBoardString(board, epSquare, whiteKingSide, whiteQueenSide, blackKingSide, blackQueenSide, moveCounter)
	if err != nil {
		return false
	}

	c.mu.Lock()
	c.pos = p
	c.players = players
	c.state = PlayerTurn
	c.result = Ongoing
	c.gameHistory = map[uint64]int{c.pos.Key: 1}
	c.eng.Clear()
	c.mu.Unlock()

	c.notifyPosition()
	c.checkTerminal()
	c.maybeStartEngineMove()
	return true
}

// MakeUserMove validates and applies a human move. A pawn reaching the
// last rank requires an explicit promotionPieceCode in {1=Q, 2=R, 3=B,
// 4=N}; any other value (including 0) when the move is a promotion is
// rejected. Returns false, leaving the position unchanged, if the move is
// illegal, promotion is required but missing, or the façade is not in
// PlayerTurn.
func (c *Controller) MakeUserMove(from, to, promotionPieceCode int) bool {
	c.mu.Lock()
	if c.state != PlayerTurn {
		c.mu.Unlock()
		return false
	}

	var move, ok = c.findLegalMove(from, to, promotionPieceCode)
	if !ok {
		c.mu.Unlock()
		return false
	}

	c.applyMoveLocked(move)
	var halfmoveIndex = c.pos.FullmoveCount*2 + int(c.pos.SideToMove)
	var p = c.pos
	c.mu.Unlock()

	if c.OnMove != nil {
		c.OnMove(move, halfmoveIndex, eval.Evaluate(p))
	}

	if c.checkTerminal() {
		return true
	}
	c.maybeStartEngineMove()
	return true
}

// findLegalMove resolves (from, to, promotionPieceCode) to the one legal
// move it names, expanding promotions into their four flag variants the
// way the legal generator does; callers must hold c.mu.
func (c *Controller) findLegalMove(from, to, promotionPieceCode int) (chess.Move, bool) {
	var wantPromotion chess.PieceType
	switch promotionPieceCode {
	case 1:
		wantPromotion = chess.Queen
	case 2:
		wantPromotion = chess.Rook
	case 3:
		wantPromotion = chess.Bishop
	case 4:
		wantPromotion = chess.Knight
	}

	var moves = movegen.GenerateLegal(c.pos, make([]chess.Move, 0, movegen.MaxMoves))
	for _, m := range moves {
		if m.From != from || m.To != to {
			continue
		}
		if !m.Flag.IsPromotion() {
			if wantPromotion != chess.NoPieceType {
				continue // a promotion code was given for a non-promoting move
			}
			return m, true
		}
		if m.Flag.PromotionPieceType() == wantPromotion {
			return m, true
		}
	}
	return chess.Move{}, false
}

// applyMoveLocked applies move to the live position and records it in the
// game-history multiset isRepeat consults; callers must hold c.mu.
func (c *Controller) applyMoveLocked(move chess.Move) {
	c.pos.Apply(move)
	c.gameHistory[c.pos.Key]++
}

// RequestLegalMask returns the 64-bit set of squares a piece on square can
// legally move to.
func (c *Controller) RequestLegalMask(square int) uint64 {
	c.mu.Lock()
	var mask = movegen.LegalMask(c.pos)[square]
	c.mu.Unlock()

	var result = uint64(mask)
	if c.OnLegalMask != nil {
		c.OnLegalMask(square, result)
	}
	return result
}

// SetEngineLimits configures the search bound; maxTimeMs is accepted for
// boundary compatibility and ignored, per spec §6.
func (c *Controller) SetEngineLimits(maxDepth, maxTimeMs int, maxNodes int64) {
	c.mu.Lock()
	c.limits = Limits{MaxDepth: maxDepth, MaxNodes: maxNodes}
	c.mu.Unlock()
}

// WaitEngine blocks until any in-flight engine move has finished, letting
// a caller (tests, or a synchronous CLI driver) observe the position only
// after the façade's state machine has returned to PlayerTurn or
// GameOver.
func (c *Controller) WaitEngine() {
	c.thinking.Wait()
}

// StopSearch sets the cooperative stop flag a running search polls.
// Best-effort: the engine returns the best move from its last completed
// iteration, or the zero-value sentinel move if cancellation lands before
// depth 1 finishes, per spec §5/§7.
func (c *Controller) StopSearch() {
	c.stop.Store(true)
}

// GetPositionString returns the current board-only position string.
// Per spec §5, calling this while the state is EngineThinking races the
// in-flight search's own Apply/Undo churn on the same *Position; callers
// that need a consistent read should wait for PlayerTurn or GameOver
// (WaitEngine, or the OnBestMove/OnGameOver callbacks) first.
func (c *Controller) GetPositionString() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos.String()
}

// GetResult returns the current terminal-result classification.
func (c *Controller) GetResult() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Snapshot renders the board into the 64-byte array the excluded
// rendering collaborator consumes: 0 = empty, 1..6 = White P,N,B,R,Q,K,
// 7..12 = the same for Black, matching chess.PieceType's own numbering
// (NoPieceType=0, Pawn=1, ... King=6) with +6 added for Black.
func (c *Controller) Snapshot() [64]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out [64]byte
	for sq := 0; sq < 64; sq++ {
		var pt, side = c.pos.PieceOn(sq)
		if pt == chess.NoPieceType {
			continue
		}
		var code = byte(pt)
		if side == chess.Black {
			code += 6
		}
		out[sq] = code
	}
	return out
}

func (c *Controller) notifyPosition() {
	if c.OnPosition == nil {
		return
	}
	c.mu.Lock()
	var s = c.pos.String()
	c.mu.Unlock()
	c.OnPosition(s)
}

// checkTerminal evaluates the terminal-state rules in spec §7/§8 against
// the current position and, if one applies, transitions to GameOver and
// fires OnGameOver. Returns whether the game just ended.
func (c *Controller) checkTerminal() bool {
	c.mu.Lock()
	if c.state == GameOver {
		c.mu.Unlock()
		return true
	}

	var p = c.pos
	var result = Ongoing
	var reason string

	switch {
	case !movegen.HasLegalMove(p):
		if p.IsCheck() {
			if p.SideToMove == chess.White {
				result, reason = BlackWon, "checkmate"
			} else {
				result, reason = WhiteWon, "checkmate"
			}
		} else {
			result, reason = DrawStalemate, "stalemate"
		}
	case p.HalfmoveClock >= 100:
		result, reason = DrawFiftyMove, "fifty-move rule"
	case c.gameHistory[p.Key] >= 3:
		result, reason = DrawRepetition, "threefold repetition"
	case p.DrawInsufficientMaterial():
		result, reason = DrawInsufficientMaterial, "insufficient material"
	}

	if result == Ongoing {
		c.mu.Unlock()
		return false
	}

	c.result = result
	c.state = GameOver
	c.mu.Unlock()

	if c.OnGameOver != nil {
		c.OnGameOver(result, reason)
	}
	return true
}

// maybeStartEngineMove transitions to EngineThinking and runs the search
// in its own goroutine if it is now an Engine-controlled side's turn,
// returning control to the caller immediately; OnBestMove fires once the
// engine's move has been applied.
func (c *Controller) maybeStartEngineMove() {
	c.mu.Lock()
	if c.state != PlayerTurn || c.players[c.pos.SideToMove] != Engine {
		c.mu.Unlock()
		return
	}
	c.state = EngineThinking
	c.stop.Store(false)
	var limits = c.limits
	c.mu.Unlock()

	c.thinking.Add(1)
	go c.runEngineMove(limits)
}

func (c *Controller) runEngineMove(limits Limits) {
	defer c.thinking.Done()

	c.mu.Lock()
	var pos = c.pos
	var gameHistory = c.gameHistory
	c.mu.Unlock()

	var searchLimits = engine.SearchLimits{
		Stop:      c.stop.Load,
		NodeLimit: limits.MaxNodes,
		Depth:     limits.MaxDepth,
	}

	var onInfo = func(r engine.SearchResult) {
		if c.OnSearchInfo != nil {
			c.OnSearchInfo(r.Depth, r.Score, pvText(r.PV))
		}
	}

	var result = c.eng.Search(pos, gameHistory, searchLimits, onInfo)

	c.mu.Lock()
	if len(result.PV) == 0 {
		c.state = PlayerTurn
		c.mu.Unlock()
		return
	}
	var move = result.PV[0]
	c.applyMoveLocked(move)
	var halfmoveIndex = c.pos.FullmoveCount*2 + int(c.pos.SideToMove)
	c.state = PlayerTurn
	c.mu.Unlock()

	if c.OnMove != nil {
		c.OnMove(move, halfmoveIndex, result.Score)
	}
	if c.OnBestMove != nil {
		c.OnBestMove(move, pvText(result.PV))
	}
	c.checkTerminal()
	c.maybeStartEngineMove()
}

// pvText renders a principal variation as space-separated long algebraic
// moves (e2e4, e7e8q), the one textual rendering spec §6's on-search-info/
// on-best-move callbacks need — grounded on chess.Move.String(), adapted
// from how the original game_controller.cpp builds its UI move list.
func pvText(pv []chess.Move) string {
	var parts = make([]string, len(pv))
	for i, m := range pv {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
