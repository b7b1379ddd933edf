package board

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is returned when a move string cannot be parsed or does not
// correspond to a legal move in the current position.
var ErrInvalidMove = errors.New("invalid move")

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-15: flag
//
// The flag nibble distinguishes move kinds. Bit 2 of the flag marks
// captures, bit 3 marks promotions, so both properties test with a
// single mask.
type Move uint16

// Move flags
const (
	FlagQuiet          = 0
	FlagDoublePawnPush = 1
	FlagKingCastle     = 2
	FlagQueenCastle    = 3
	FlagCapture        = 4
	FlagEnPassant      = 5
	FlagPromoKnight    = 8
	FlagPromoBishop    = 9
	FlagPromoRook      = 10
	FlagPromoQueen     = 11
	FlagPromoCapKnight = 12
	FlagPromoCapBishop = 13
	FlagPromoCapRook   = 14
	FlagPromoCapQueen  = 15
)

// NullMove is the zero move, used as a sentinel for "no move".
const NullMove Move = 0

// NewMove creates a move from origin and destination squares and a flag.
func NewMove(from, to Square, flag int) Move {
	return Move(uint16(from) | uint16(to)<<6 | uint16(flag)<<12)
}

// NewPromotion creates a promotion move. If capture is true the pawn
// also captures on the destination square.
func NewPromotion(from, to Square, promo PieceType, capture bool) Move {
	flag := FlagPromoKnight + int(promo-Knight)
	if capture {
		flag |= FlagCapture
	}
	return NewMove(from, to, flag)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move flag.
func (m Move) Flag() int {
	return int(m >> 12)
}

// IsCapture returns true if the move captures a piece, including en passant.
func (m Move) IsCapture() bool {
	return m&(FlagCapture<<12) != 0
}

// IsPromotion returns true if the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m&(FlagPromoKnight<<12) != 0
}

// IsEnPassant returns true if the move is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsCastle returns true if the move is a castling move.
func (m Move) IsCastle() bool {
	f := m.Flag()
	return f == FlagKingCastle || f == FlagQueenCastle
}

// IsDoublePawnPush returns true if the move is a two-square pawn advance.
func (m Move) IsDoublePawnPush() bool {
	return m.Flag() == FlagDoublePawnPush
}

// Promotion returns the piece type a pawn promotes to, or NoPieceType
// for non-promotion moves.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return Knight + PieceType(m.Flag()&3)
}

// String returns the move in UCI long algebraic notation, e.g. "e2e4"
// or "e7e8q" for promotions. The null move renders as "0000".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		switch m.Promotion() {
		case Knight:
			s += "n"
		case Bishop:
			s += "b"
		case Rook:
			s += "r"
		case Queen:
			s += "q"
		}
	}
	return s
}

// ParseMove parses a move in UCI long algebraic notation and resolves it
// against the legal moves of the given position. The position is not
// modified. Returns ErrInvalidMove if the string is malformed or no legal
// move matches.
func ParseMove(s string, p *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
		}
	}

	for _, m := range p.GenerateLegalMoves() {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.Promotion() != promo {
			continue
		}
		return m, nil
	}
	return NullMove, fmt.Errorf("%w: %q is not legal in this position", ErrInvalidMove, s)
}

// MoveList is a fixed-capacity list of moves, sized for the maximum
// number of legal moves in any reachable chess position.
type MoveList struct {
	Moves [256]Move
	Count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.Moves[ml.Count] = m
	ml.Count++
}

// Slice returns the filled portion of the list.
func (ml *MoveList) Slice() []Move {
	return ml.Moves[:ml.Count]
}
