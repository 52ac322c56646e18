package engine

import "github.com/KorolyovAl/ChessBot/pkg/chess"

type bound uint8

const (
	boundNone bound = iota
	boundExact
	boundLower
	boundUpper
)

// ttMove is a compact best-move record: from/to plus a promotion piece
// type, enough to find the matching chess.Move among a node's legal moves
// without reconstructing MovingPiece/CapturedPiece from a stale snapshot.
type ttMove struct {
	from, to  int
	promotion chess.PieceType
}

func packTTMove(m chess.Move) ttMove {
	var promo chess.PieceType
	if m.Flag.IsPromotion() {
		promo = m.Flag.PromotionPieceType()
	}
	return ttMove{from: m.From, to: m.To, promotion: promo}
}

func (tm ttMove) matches(m chess.Move) bool {
	if tm.from == chess.SquareNone {
		return false
	}
	var promo chess.PieceType
	if m.Flag.IsPromotion() {
		promo = m.Flag.PromotionPieceType()
	}
	return tm.from == m.From && tm.to == m.To && tm.promotion == promo
}

type ttSlot struct {
	key   uint64
	depth int
	score int
	bound bound
	move  ttMove
}

// transpositionTable is direct-mapped with a single slot per index and an
// unconditional overwrite on store, per the spec's simplified replacement
// policy; CounterGo's pkg/engine/transtable.go additionally ages entries by
// search generation and gates slot access with an atomic CAS for lazy SMP,
// both dropped here since this engine is single-threaded and never
// revisits stale entries across otherwise-unrelated searches in a way that
// calls for generation tracking.
type transpositionTable struct {
	slots []ttSlot
	mask  uint64
}

func newTranspositionTable(megabytes int) *transpositionTable {
	var bytesPerSlot = 40 // rough accounting; exactness doesn't matter, only the power-of-two slot count does
	var slotCount = roundUpPowerOfTwo(megabytes * 1024 * 1024 / bytesPerSlot)
	if slotCount < 1 {
		slotCount = 1
	}
	return &transpositionTable{
		slots: make([]ttSlot, slotCount),
		mask:  uint64(slotCount - 1),
	}
}

func roundUpPowerOfTwo(n int) int {
	var x = 1
	for x < n {
		x <<= 1
	}
	return x
}

func (tt *transpositionTable) Clear() {
	for i := range tt.slots {
		tt.slots[i] = ttSlot{}
	}
}

type ttProbeResult struct {
	hit    bool
	cutoff bool
	score  int
	move   ttMove
}

func (tt *transpositionTable) Probe(key uint64, depth, alpha, beta int) ttProbeResult {
	var slot = &tt.slots[key&tt.mask]
	if slot.key != key {
		return ttProbeResult{}
	}
	var result = ttProbeResult{hit: true, move: slot.move}
	if slot.depth >= depth {
		switch slot.bound {
		case boundExact:
			result.cutoff = true
			result.score = slot.score
		case boundLower:
			if slot.score >= beta {
				result.cutoff = true
				result.score = slot.score
			}
		case boundUpper:
			if slot.score <= alpha {
				result.cutoff = true
				result.score = slot.score
			}
		}
	}
	return result
}

func (tt *transpositionTable) Store(key uint64, depth, score int, b bound, move chess.Move) {
	var slot = &tt.slots[key&tt.mask]
	slot.key = key
	slot.depth = depth
	slot.score = score
	slot.bound = b
	if move != (chess.Move{}) {
		slot.move = packTTMove(move)
	} else {
		slot.move = ttMove{from: chess.SquareNone}
	}
}
