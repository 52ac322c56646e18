package chess

// PieceType enumerates the six piece kinds plus the empty-square sentinel.
// NoPieceType is deliberately the zero value, matching the teacher's Empty;
// a zero-valued Move's CapturedPiece then reads as "no capture" without
// every call site needing to set it explicitly.
type PieceType int

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "-"
	}
}

// Side is the player to move or the owner of a piece.
type Side int

const (
	White Side = iota
	Black
	NoSide
)

func (s Side) Opposite() Side {
	return s ^ 1
}

func (s Side) String() string {
	if s == White {
		return "w"
	}
	return "b"
}

// MoveFlag distinguishes the move kinds that change Apply/Undo bookkeeping:
// double pawn pushes set the en-passant square, en-passant captures remove a
// piece not on the destination square, castling moves the rook as a second
// step, and promotions replace the moving pawn.
type MoveFlag int

const (
	NoFlag MoveFlag = iota
	DoublePawnPush
	EnPassantCapture
	CastleKingSideWhite
	CastleQueenSideWhite
	CastleKingSideBlack
	CastleQueenSideBlack
	Capture
	PromoteQueen
	PromoteRook
	PromoteBishop
	PromoteKnight
)

func (f MoveFlag) IsCastle() bool {
	return f >= CastleKingSideWhite && f <= CastleQueenSideBlack
}

func (f MoveFlag) IsPromotion() bool {
	return f >= PromoteQueen && f <= PromoteKnight
}

// PromotionPieceType returns the piece a promotion flag produces; callers
// must only call this when f.IsPromotion() is true.
func (f MoveFlag) PromotionPieceType() PieceType {
	switch f {
	case PromoteQueen:
		return Queen
	case PromoteRook:
		return Rook
	case PromoteBishop:
		return Bishop
	default:
		return Knight
	}
}

// Move is a structured move record, matching the boundary contract: no
// engine anywhere in this module produces or consumes SAN text.
type Move struct {
	From          int
	To            int
	MovingPiece   PieceType
	MovingSide    Side
	CapturedPiece PieceType // NoPieceType if this move captures nothing
	CapturedSide  Side      // NoSide if CapturedPiece == NoPieceType
	Flag          MoveFlag
}

func (m Move) IsCapture() bool {
	return m.CapturedPiece != NoPieceType
}

// String renders a move in long algebraic form (e2e4, e7e8q), the only
// textual form this module produces; used for PV diagnostics, never parsed
// back by the engine itself.
func (m Move) String() string {
	var s = SquareName(m.From) + SquareName(m.To)
	if m.Flag.IsPromotion() {
		s += m.Flag.PromotionPieceType().String()
	}
	return s
}

func Min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
