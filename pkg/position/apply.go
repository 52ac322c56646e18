package position

import "github.com/KorolyovAl/ChessBot/pkg/chess"

// Undo captures exactly the state Apply cannot recompute from the move
// record alone, so UndoMove can restore the position in place without
// keeping a history stack — the re-architecture spec calls for in place of
// the teacher's copy-on-move MakeMove.
type Undo struct {
	Move          chess.Move
	CastleRights  int
	EPSquare      int
	HalfmoveClock int
	Key           uint64
	Checkers      chess.Bitboard
}

// castleMask[sq] is ANDed into CastleRights whenever a move touches sq,
// clearing the rights tied to a king or rook that has moved or been
// captured on its home square.
var castleMask [64]int

func init() {
	var all = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
	for sq := range castleMask {
		castleMask[sq] = all
	}
	castleMask[chess.A1] &^= WhiteQueenSide
	castleMask[chess.E1] &^= WhiteKingSide | WhiteQueenSide
	castleMask[chess.H1] &^= WhiteKingSide
	castleMask[chess.A8] &^= BlackQueenSide
	castleMask[chess.E8] &^= BlackKingSide | BlackQueenSide
	castleMask[chess.H8] &^= BlackKingSide
}

func (p *Position) xorPiece(pt chess.PieceType, side chess.Side, sq int) {
	var bb = chess.SquareMask[sq]
	if side == chess.White {
		p.White ^= bb
	} else {
		p.Black ^= bb
	}
	p.ByType[pt] ^= bb
	p.Key ^= pieceSquareKey(side, pt, sq)
}

func (p *Position) movePiece(pt chess.PieceType, side chess.Side, from, to int) {
	var bb = chess.SquareMask[from] | chess.SquareMask[to]
	if side == chess.White {
		p.White ^= bb
	} else {
		p.Black ^= bb
	}
	p.ByType[pt] ^= bb
	p.Key ^= pieceSquareKey(side, pt, from) ^ pieceSquareKey(side, pt, to)
}

// Apply mutates p to reflect move and returns the Undo record needed to
// reverse it. Apply does not itself check legality; callers (the legal move
// generator) must only Apply moves it has already vetted, or must check
// p.IsLegal() after Apply and UndoMove immediately on failure, matching how
// the teacher's MakeMove returns false for moves leaving the king in check.
func (p *Position) Apply(move chess.Move) Undo {
	var undo = Undo{
		Move:          move,
		CastleRights:  p.CastleRights,
		EPSquare:      p.EPSquare,
		HalfmoveClock: p.HalfmoveClock,
		Key:           p.Key,
		Checkers:      p.Checkers,
	}

	var side = p.SideToMove
	var other = side.Opposite()

	if p.EPSquare != chess.SquareNone {
		p.Key ^= enPassantKey[chess.File(p.EPSquare)]
	}
	p.EPSquare = chess.SquareNone

	if move.IsCapture() {
		if move.Flag == chess.EnPassantCapture {
			var capSq = move.To - 8
			if side == chess.Black {
				capSq = move.To + 8
			}
			p.xorPiece(chess.Pawn, other, capSq)
		} else {
			p.xorPiece(move.CapturedPiece, other, move.To)
		}
	}

	p.movePiece(move.MovingPiece, side, move.From, move.To)

	if move.Flag.IsPromotion() {
		p.xorPiece(chess.Pawn, side, move.To)
		p.xorPiece(move.Flag.PromotionPieceType(), side, move.To)
	} else if move.Flag == chess.DoublePawnPush {
		var epSq = move.From + 8
		if side == chess.Black {
			epSq = move.From - 8
		}
		// The en-passant square is only set, and hashed into the key, when
		// an enemy pawn could actually execute the capture next move;
		// otherwise EPSquare stays SquareNone after the double push. Folding an
		// always-on EP key would desync positions that merely share a
		// double-push history but never had a live capture available.
		if p.epCaptureAvailable(epSq, other) {
			p.EPSquare = epSq
			p.Key ^= enPassantKey[chess.File(epSq)]
		}
	} else if move.Flag.IsCastle() {
		switch move.Flag {
		case chess.CastleKingSideWhite:
			p.movePiece(chess.Rook, chess.White, chess.H1, chess.F1)
		case chess.CastleQueenSideWhite:
			p.movePiece(chess.Rook, chess.White, chess.A1, chess.D1)
		case chess.CastleKingSideBlack:
			p.movePiece(chess.Rook, chess.Black, chess.H8, chess.F8)
		case chess.CastleQueenSideBlack:
			p.movePiece(chess.Rook, chess.Black, chess.A8, chess.D8)
		}
	}

	p.CastleRights &= castleMask[move.From] & castleMask[move.To]
	p.Key ^= castleKey[undo.CastleRights] ^ castleKey[p.CastleRights]

	if move.MovingPiece == chess.Pawn || move.IsCapture() {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}

	p.SideToMove = other
	p.Key ^= sideToMoveKey
	if other == chess.White {
		p.FullmoveCount++
	}

	p.Checkers = p.computeCheckers()

	return undo
}

// epCaptureAvailable reports whether a pawn of capturingSide standing
// adjacent to epSquare's originating pawn could legally play the capture,
// so the en-passant Zobrist key is only folded in when the capture is a
// real option, matching the symmetric fold/unfold the spec requires between
// Apply and UndoMove.
func (p *Position) epCaptureAvailable(epSquare int, capturingSide chess.Side) bool {
	var capturedPawnSquare = epSquare - 8
	if capturingSide == chess.Black {
		capturedPawnSquare = epSquare + 8
	}
	var attackers = chess.PawnAttacks[capturingSide.Opposite()][epSquare] &
		p.PieceBitboard(capturingSide, chess.Pawn)
	for b := attackers; b != 0; b &= b - 1 {
		var from = chess.ScanForward(b)
		if p.epPseudoCaptureIsLegal(from, epSquare, capturedPawnSquare, capturingSide) {
			return true
		}
	}
	return false
}

// epPseudoCaptureIsLegal simulates the capture (both the moving pawn and the
// captured pawn leave the board) and checks the mover's own king safety,
// since an EP capture can expose a pin along the vacated rank.
func (p *Position) epPseudoCaptureIsLegal(from, to, capturedSq int, side chess.Side) bool {
	var occ = p.Occupied()
	occ &^= chess.SquareMask[from]
	occ &^= chess.SquareMask[capturedSq]
	occ |= chess.SquareMask[to]

	var kingSq = p.KingSquare(side)
	if from == kingSq {
		kingSq = to
	}
	var enemy = p.ByColor(side.Opposite())
	if chess.BishopAttacks(kingSq, occ)&(p.ByType[chess.Bishop]|p.ByType[chess.Queen])&enemy != 0 {
		return false
	}
	if chess.RookAttacks(kingSq, occ)&(p.ByType[chess.Rook]|p.ByType[chess.Queen])&enemy != 0 {
		return false
	}
	return true
}

// UndoMove reverses the most recently Applied move using the Undo record
// Apply returned; calls must nest in strict LIFO order.
func (p *Position) UndoMove(u Undo) {
	var other = p.SideToMove
	var side = other.Opposite()
	var move = u.Move

	p.SideToMove = side

	if move.Flag.IsCastle() {
		switch move.Flag {
		case chess.CastleKingSideWhite:
			p.movePiece(chess.Rook, chess.White, chess.F1, chess.H1)
		case chess.CastleQueenSideWhite:
			p.movePiece(chess.Rook, chess.White, chess.D1, chess.A1)
		case chess.CastleKingSideBlack:
			p.movePiece(chess.Rook, chess.Black, chess.F8, chess.H8)
		case chess.CastleQueenSideBlack:
			p.movePiece(chess.Rook, chess.Black, chess.D8, chess.A8)
		}
	}

	if move.Flag.IsPromotion() {
		p.xorPiece(move.Flag.PromotionPieceType(), side, move.To)
		p.xorPiece(chess.Pawn, side, move.To)
	}

	p.movePiece(move.MovingPiece, side, move.To, move.From)

	if move.IsCapture() {
		if move.Flag == chess.EnPassantCapture {
			var capSq = move.To - 8
			if side == chess.Black {
				capSq = move.To + 8
			}
			p.xorPiece(chess.Pawn, other, capSq)
		} else {
			p.xorPiece(move.CapturedPiece, other, move.To)
		}
	}

	if side == chess.Black {
		p.FullmoveCount--
	}

	p.CastleRights = u.CastleRights
	p.EPSquare = u.EPSquare
	p.HalfmoveClock = u.HalfmoveClock
	p.Key = u.Key
	p.Checkers = u.Checkers
}

// ApplyNull flips the side to move without moving a piece, used by the
// search engine's null-move pruning; the en-passant square is always
// cleared since no pawn just moved.
func (p *Position) ApplyNull() Undo {
	var undo = Undo{
		CastleRights:  p.CastleRights,
		EPSquare:      p.EPSquare,
		HalfmoveClock: p.HalfmoveClock,
		Key:           p.Key,
		Checkers:      p.Checkers,
	}
	if p.EPSquare != chess.SquareNone {
		p.Key ^= enPassantKey[chess.File(p.EPSquare)]
	}
	p.EPSquare = chess.SquareNone
	p.HalfmoveClock++
	p.SideToMove = p.SideToMove.Opposite()
	p.Key ^= sideToMoveKey
	p.Checkers = 0
	return undo
}

func (p *Position) UndoNull(u Undo) {
	p.SideToMove = p.SideToMove.Opposite()
	p.EPSquare = u.EPSquare
	p.HalfmoveClock = u.HalfmoveClock
	p.Key = u.Key
	p.Checkers = u.Checkers
}
