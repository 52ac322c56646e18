package engine

import "github.com/KorolyovAl/ChessBot/pkg/chess"

const historyMax = 1 << 14 // 16384, the clamp spec's move-ordering formula applies

// historyTable scores quiet moves by how often they have caused a cutoff,
// indexed [side][from][to]; grounded on CounterGo's pkg/engine/history.go
// mainHistory table, trimmed of its continuation-history (piece-to-square,
// previous-move-conditioned) component and exponential-moving-average
// update rule. The spec calls for a plain depth-squared bonus with a hard
// halving-on-overflow aging rule instead of an EMA, so that's what this
// keeps.
type historyTable struct {
	score [2][64][64]int
}

func (h *historyTable) Read(side chess.Side, m chess.Move) int {
	return h.score[side][m.From][m.To]
}

func (h *historyTable) Update(side chess.Side, m chess.Move, depth int) {
	var cell = &h.score[side][m.From][m.To]
	*cell += depth * depth
	if *cell > 32767 {
		h.ageAll()
	}
}

func (h *historyTable) ageAll() {
	for s := range h.score {
		for f := range h.score[s] {
			for t := range h.score[s][f] {
				h.score[s][f][t] /= 2
			}
		}
	}
}

func (h *historyTable) Clear() {
	*h = historyTable{}
}

// cutoffKeys holds the two most recent cutoff-causing move keys for one
// search ply, packed as from | (to << 8); zero means unset. This is the
// spec's replacement for CounterGo's killer-move pair (stored as full
// Move values in moveiterator.go's killer1/killer2) — packed smaller since
// nothing here needs the captured-piece/flag bits to recognize a repeat.
type cutoffKeys struct {
	slot0, slot1 uint16
}

func moveKey(m chess.Move) uint16 {
	return uint16(m.From) | uint16(m.To)<<8
}

func (c *cutoffKeys) update(m chess.Move) {
	var key = moveKey(m)
	if c.slot0 == key {
		return
	}
	if c.slot1 == key {
		c.slot0, c.slot1 = key, c.slot0
		return
	}
	c.slot1 = c.slot0
	c.slot0 = key
}

func (c *cutoffKeys) matches(m chess.Move) (first, second bool) {
	var key = moveKey(m)
	return c.slot0 != 0 && c.slot0 == key, c.slot1 != 0 && c.slot1 == key
}
