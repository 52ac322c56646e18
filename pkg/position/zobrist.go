package position

import (
	"math/rand"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
)

// Zobrist keys are seeded deterministically so perft and TT regression
// tests are reproducible across runs, matching the teacher's fixed-seed
// key table.
var (
	sideToMoveKey uint64
	castleKey     [16]uint64
	enPassantKey  [8]uint64
	// pieceKey is indexed [side][pieceType][square]; index 0 of the middle
	// dimension (chess.NoPieceType) is unused.
	pieceKey [2][7][64]uint64
)

func pieceSquareKey(side chess.Side, pt chess.PieceType, sq int) uint64 {
	return pieceKey[side][pt][sq]
}

func init() {
	var r = rand.New(rand.NewSource(0))

	sideToMoveKey = r.Uint64()

	for i := range enPassantKey {
		enPassantKey[i] = r.Uint64()
	}

	var castleBit [4]uint64
	for i := range castleBit {
		castleBit[i] = r.Uint64()
	}
	for i := range castleKey {
		for j := 0; j < 4; j++ {
			if i&(1<<uint(j)) != 0 {
				castleKey[i] ^= castleBit[j]
			}
		}
	}

	for side := 0; side < 2; side++ {
		for pt := chess.Pawn; pt <= chess.King; pt++ {
			for sq := 0; sq < 64; sq++ {
				pieceKey[side][pt][sq] = r.Uint64()
			}
		}
	}
}

// computeKey recomputes the Zobrist key from scratch; used only by the
// parser and by tests that check Apply/Undo's incremental key against a
// from-scratch recomputation.
func (p *Position) computeKey() uint64 {
	var key uint64
	if p.SideToMove == chess.White {
		key ^= sideToMoveKey
	}
	key ^= castleKey[p.CastleRights]
	if p.EPSquare != chess.SquareNone {
		key ^= enPassantKey[chess.File(p.EPSquare)]
	}
	for sq := 0; sq < 64; sq++ {
		var pt, side = p.PieceOn(sq)
		if pt != chess.NoPieceType {
			key ^= pieceSquareKey(side, pt, sq)
		}
	}
	return key
}
