package engine

import "github.com/KorolyovAl/ChessBot/pkg/chess"

// Search stack depth and mate-score constants, grounded on CounterGo's
// pkg/engine/utils.go (stackSize/valueMate/valueWin/winIn/lossIn); this
// repo carries the same values but drops the lazy-SMP-only valueLoss/
// isLateEndgame helpers, which have no caller without multiple threads.
const (
	maxPly        = 128
	valueDraw     = 0
	valueMate     = 30000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - 2*maxPly
)

func winIn(ply int) int {
	return valueMate - ply
}

func lossIn(ply int) int {
	return -valueMate + ply
}

// valueToTT re-expresses a mate score, which search counts in plies from
// the root, as a distance from the storing node; valueFromTT converts it
// back using the reading node's ply, so a stored mate score stays
// comparable however deep it is re-read from, per spec's mate-score
// normalization rule.
func valueToTT(v, ply int) int {
	if v >= valueWin {
		return v + ply
	}
	if v <= -valueWin {
		return v - ply
	}
	return v
}

func valueFromTT(v, ply int) int {
	if v >= valueWin {
		return v - ply
	}
	if v <= -valueWin {
		return v + ply
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func isCaptureOrPromotion(m chess.Move) bool {
	return m.IsCapture() || m.Flag.IsPromotion()
}
