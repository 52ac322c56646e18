package position

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/KorolyovAl/ChessBot/pkg/chess"
)

const InitialPositionFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Parse builds a Position from a FEN-ish string: board, side to move,
// castle rights, en-passant square, and optionally a halfmove clock and
// fullmove counter. Malformed input is reported as an error with the
// offending string echoed back, following the teacher's NewPositionFromFEN.
func Parse(fen string) (*Position, error) {
	var tokens = strings.Fields(fen)
	if len(tokens) < 4 {
		return nil, fmt.Errorf("position: invalid board string %q", fen)
	}

	var p = &Position{EPSquare: chess.SquareNone}
	if err := parseBoard(p, tokens[0]); err != nil {
		return nil, fmt.Errorf("position: invalid board string %q: %w", fen, err)
	}

	switch tokens[1] {
	case "w":
		p.SideToMove = chess.White
	case "b":
		p.SideToMove = chess.Black
	default:
		return nil, fmt.Errorf("position: invalid board string %q: bad side to move %q", fen, tokens[1])
	}

	if tokens[2] != "-" {
		if strings.Contains(tokens[2], "K") {
			p.CastleRights |= WhiteKingSide
		}
		if strings.Contains(tokens[2], "Q") {
			p.CastleRights |= WhiteQueenSide
		}
		if strings.Contains(tokens[2], "k") {
			p.CastleRights |= BlackKingSide
		}
		if strings.Contains(tokens[2], "q") {
			p.CastleRights |= BlackQueenSide
		}
	}

	p.EPSquare = chess.ParseSquare(tokens[3])

	p.HalfmoveClock = 0
	if len(tokens) > 4 {
		var n, err = strconv.Atoi(tokens[4])
		if err != nil {
			return nil, fmt.Errorf("position: invalid board string %q: bad halfmove clock", fen)
		}
		p.HalfmoveClock = n
	}

	p.FullmoveCount = 1
	if len(tokens) > 5 {
		var n, err = strconv.Atoi(tokens[5])
		if err != nil {
			return nil, fmt.Errorf("position: invalid board string %q: bad fullmove count", fen)
		}
		p.FullmoveCount = n
	}

	if chess.PopCount(p.PieceBitboard(chess.White, chess.King)) != 1 ||
		chess.PopCount(p.PieceBitboard(chess.Black, chess.King)) != 1 {
		return nil, fmt.Errorf("position: invalid board string %q: need exactly one king per side", fen)
	}

	p.Key = p.computeKey()
	p.Checkers = p.computeCheckers()

	if p.IsSquareAttackedBy(p.KingSquare(p.SideToMove.Opposite()), p.SideToMove) {
		return nil, fmt.Errorf("position: invalid board string %q: side not to move is in check", fen)
	}

	return p, nil
}

// parseBoard fills p's piece bitboards from board (rank 8 down to rank 1,
// '/'-separated, digits for empty runs); the shared core of Parse and
// ParseBoardString.
func parseBoard(p *Position, board string) error {
	var rank, file = chess.Rank8, chess.FileA
	for _, ch := range board {
		switch {
		case ch == '/':
			rank--
			file = chess.FileA
		case unicode.IsDigit(ch):
			file += int(ch - '0')
		default:
			var pt, side, ok = pieceFromChar(ch)
			if !ok {
				return fmt.Errorf("bad piece %q", ch)
			}
			if file > chess.FileH || rank < chess.Rank1 {
				return fmt.Errorf("overflowed board")
			}
			var sq = chess.MakeSquare(file, rank)
			p.xorPieceNoKey(pt, side, sq)
			file++
		}
	}
	return nil
}

// BoardEPNone is the boundary's en-passant sentinel per spec §6 ("a square
// index 0..63 or the sentinel 255"), distinct from chess.SquareNone (-1)
// used internally.
const BoardEPNone = 255

// ParseBoardString builds a Position from the boundary's board-input
// contract (spec §6): a board-only string, an explicit EP target (0..63 or
// BoardEPNone), four castling-rights booleans, and an initial move counter
// whose parity determines the side to move (even = White). Unlike Parse,
// there is no side/clock/fullmove suffix to read — those fields either
// come from the explicit parameters or are out of scope.
func ParseBoardString(board string, epSquare int, whiteKingSide, whiteQueenSide, blackKingSide, blackQueenSide bool, moveCounter int) (*Position, error) {
	var p = &Position{EPSquare: chess.SquareNone}
	if err := parseBoard(p, board); err != nil {
		return nil, fmt.Errorf("position: invalid board string %q: %w", board, err)
	}

	if moveCounter%2 == 0 {
		p.SideToMove = chess.White
	} else {
		p.SideToMove = chess.Black
	}

	if whiteKingSide {
		p.CastleRights |= WhiteKingSide
	}
	if whiteQueenSide {
		p.CastleRights |= WhiteQueenSide
	}
	if blackKingSide {
		p.CastleRights |= BlackKingSide
	}
	if blackQueenSide {
		p.CastleRights |= BlackQueenSide
	}

	if epSquare == BoardEPNone {
		p.EPSquare = chess.SquareNone
	} else if epSquare < 0 || epSquare > 63 {
		return nil, fmt.Errorf("position: invalid en-passant square %d", epSquare)
	} else {
		p.EPSquare = epSquare
	}

	p.HalfmoveClock = 0
	p.FullmoveCount = moveCounter/2 + 1

	if chess.PopCount(p.PieceBitboard(chess.White, chess.King)) != 1 ||
		chess.PopCount(p.PieceBitboard(chess.Black, chess.King)) != 1 {
		return nil, fmt.Errorf("position: invalid board string %q: need exactly one king per side", board)
	}

	p.Key = p.computeKey()
	p.Checkers = p.computeCheckers()

	if p.IsSquareAttackedBy(p.KingSquare(p.SideToMove.Opposite()), p.SideToMove) {
		return nil, fmt.Errorf("position: invalid board string %q: side not to move is in check", board)
	}

	return p, nil
}

func InitialPosition() *Position {
	var p, err = Parse(InitialPositionFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// xorPieceNoKey places a piece without touching Key, used only while
// building up the board during parsing; the key is computed once from
// scratch afterward.
func (p *Position) xorPieceNoKey(pt chess.PieceType, side chess.Side, sq int) {
	var bb = chess.SquareMask[sq]
	if side == chess.White {
		p.White ^= bb
	} else {
		p.Black ^= bb
	}
	p.ByType[pt] ^= bb
}

func pieceFromChar(ch rune) (chess.PieceType, chess.Side, bool) {
	var side = chess.White
	var lower = ch
	if unicode.IsLower(ch) {
		side = chess.Black
	} else {
		lower = unicode.ToLower(ch)
	}
	switch lower {
	case 'p':
		return chess.Pawn, side, true
	case 'n':
		return chess.Knight, side, true
	case 'b':
		return chess.Bishop, side, true
	case 'r':
		return chess.Rook, side, true
	case 'q':
		return chess.Queen, side, true
	case 'k':
		return chess.King, side, true
	default:
		return chess.NoPieceType, chess.NoSide, false
	}
}

// String renders only the board field of the boundary's board-string
// grammar (ranks 8 down to 1, '/'-separated, digits for empty runs) — side
// to move, castle rights, and clocks are not part of the out-of-scope wire
// format the controller exposes.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := chess.Rank8; rank >= chess.Rank1; rank-- {
		var empty = 0
		for file := chess.FileA; file <= chess.FileH; file++ {
			var sq = chess.MakeSquare(file, rank)
			var pt, side = p.PieceOn(sq)
			if pt == chess.NoPieceType {
				empty++
				continue
			}
			if empty != 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			var ch = pt.String()
			if side == chess.White {
				ch = strings.ToUpper(ch)
			}
			sb.WriteString(ch)
		}
		if empty != 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank != chess.Rank1 {
			sb.WriteString("/")
		}
	}
	return sb.String()
}
