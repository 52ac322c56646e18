package movegen

import (
	"testing"

	"github.com/KorolyovAl/ChessBot/pkg/position"
)

// Reference counts from https://www.chessprogramming.org/Perft_Results,
// the same source the teacher's TestPerft cites; kept to depths small
// enough to run quickly while still exercising promotions, castling, en
// passant and check evasion.
func TestPerftReferencePositions(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		nodes int64
	}{
		{"initial-1", position.InitialPositionFEN, 1, 20},
		{"initial-2", position.InitialPositionFEN, 2, 400},
		{"initial-3", position.InitialPositionFEN, 3, 8902},
		{"initial-4", position.InitialPositionFEN, 4, 197281},
		{"kiwipete-1", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
		{"kiwipete-2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
		{"kiwipete-3", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
		{"position3-1", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 1, 14},
		{"position3-3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
		{"position5-1", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 1, 44},
		{"position5-2", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 2, 1486},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p, err = position.Parse(tt.fen)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.fen, err)
			}
			if got := Perft(p, tt.depth); got != tt.nodes {
				t.Errorf("Perft(depth=%d) = %d, want %d", tt.depth, got, tt.nodes)
			}
		})
	}
}
