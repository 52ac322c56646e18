package movegen

import (
	"testing"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
	"github.com/KorolyovAl/ChessBot/pkg/position"
)

func TestGenerateLegalInitialPositionCount(t *testing.T) {
	var p = position.InitialPosition()
	var moves = GenerateLegal(p, nil)
	if len(moves) != 20 {
		t.Errorf("legal move count from initial position = %d, want 20", len(moves))
	}
}

func TestCheckmateHasNoLegalMoves(t *testing.T) {
	// Fool's mate final position: white to move, checkmated.
	var p, err = position.Parse("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !p.IsCheck() {
		t.Fatalf("expected white to be in check")
	}
	if HasLegalMove(p) {
		t.Errorf("expected no legal moves (checkmate)")
	}
}

func TestStalematePositionHasNoLegalMoves(t *testing.T) {
	// Classic stalemate: black king a8 boxed in, no check.
	var p, err = position.Parse("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.IsCheck() {
		t.Fatalf("expected black not to be in check")
	}
	if HasLegalMove(p) {
		t.Errorf("expected no legal moves (stalemate)")
	}
}

func TestPinnedPieceCannotMoveOffPinLine(t *testing.T) {
	// White rook on d4 is pinned by the black rook on d8 against the white
	// king on d1; d4 may only move along the d-file or capture the pinner.
	var p, err = position.Parse("3r1k2/8/8/8/3R4/8/8/3K4 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var moves = GenerateLegal(p, nil)
	for _, m := range moves {
		if m.From != 27 { // D4
			continue
		}
		if m.To%8 != 3 { // file D
			t.Errorf("pinned rook move %s leaves the pin line", m)
		}
	}
}

func TestEnPassantCaptureIsGenerated(t *testing.T) {
	var p, err = position.Parse("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var found = false
	for _, m := range GenerateLegal(p, nil) {
		if m.MovingPiece.String() == "p" && m.To == p.EPSquare {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an en passant capture among legal moves")
	}
}

func TestGenerateLegalCapturesExcludesQuietPromotion(t *testing.T) {
	// White pawn on a7 can either push quietly to a8 (promotion, no
	// capture) or capture the rook on b8 (promotion, capture); only the
	// latter belongs in the capture-only move set.
	var p, err = position.Parse("1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var sawQuietPromotion = false
	var capturePromotions = 0
	for _, m := range GenerateLegalCaptures(p, nil) {
		if m.From != chess.A7 {
			continue
		}
		if !m.IsCapture() {
			sawQuietPromotion = true
		} else if m.To == chess.B8 {
			capturePromotions++
		}
	}
	if sawQuietPromotion {
		t.Errorf("GenerateLegalCaptures included a quiet (non-capturing) promotion push")
	}
	if capturePromotions != 4 {
		t.Errorf("capturing a7xb8 promotions found = %d, want 4 (Q,R,B,N)", capturePromotions)
	}
}

func TestGenerateLegalCapturesIncludesOrdinaryCapture(t *testing.T) {
	var p, err = position.Parse("4k3/8/8/3p4/8/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var found = false
	for _, m := range GenerateLegalCaptures(p, nil) {
		if !m.IsCapture() {
			t.Errorf("GenerateLegalCaptures returned a non-capturing move: %s", m)
		}
		if m.From == chess.D1 && m.To == chess.D5 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the rook's capture of the pawn on d5 among legal captures")
	}
}

func TestGenerateLegalCapturesIncludesEnPassant(t *testing.T) {
	var p, err = position.Parse("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var found = false
	for _, m := range GenerateLegalCaptures(p, nil) {
		if m.Flag == chess.EnPassantCapture && m.To == p.EPSquare {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the en passant capture among legal captures")
	}
}

func TestCastlingBlockedWhenPathAttacked(t *testing.T) {
	// Black rook on f8 covers f1, so white cannot castle kingside even
	// though the squares are empty and rights are intact.
	var p, err = position.Parse("5rk1/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, m := range GenerateLegal(p, nil) {
		if m.From == 4 && m.To == 6 { // E1 -> G1
			t.Errorf("castling should be illegal through an attacked square")
		}
	}
}
