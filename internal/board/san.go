package board

import (
	"fmt"
	"strings"
)

// ToSAN renders a move in Standard Algebraic Notation for the position
// it is about to be played in.
func (m Move) ToSAN(pos *Position) string {
	if m == NullMove {
		return "-"
	}

	var sb strings.Builder

	if m.IsCastle() {
		if m.Flag() == FlagKingCastle {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		from, to := m.From(), m.To()
		piece := pos.PieceAt(from)
		if piece == NoPiece {
			return m.String() // Fallback to UCI
		}
		pt := piece.Type()

		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, pt))
		}

		if m.IsCapture() {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	// Check and checkmate markers come from the resulting position.
	next := pos.Copy()
	next.MakeMove(m)
	if next.IsCheckmate() {
		sb.WriteByte('#')
	} else if next.InCheck() {
		sb.WriteByte('+')
	}

	return sb.String()
}

// disambiguation returns the origin qualifier needed when other pieces
// of the same type can also reach the destination.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	pieces := pos.Pieces[pos.SideToMove][pt]

	var candidates []Square
	for _, move := range pos.GenerateLegalMoves() {
		if move.To() != to || move.From() == from {
			continue
		}
		if pieces.IsSet(move.From()) {
			candidates = append(candidates, move.From())
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !sameFile:
		return string('a' + byte(from.File()))
	case !sameRank:
		return string('1' + byte(from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN resolves a SAN string against the position's legal moves.
// Unresolvable or malformed input yields ErrInvalidMove.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "+")
	s = strings.TrimSuffix(s, "#")

	if s == "O-O" || s == "0-0" {
		return matchCastle(pos, FlagKingCastle, orig)
	}
	if s == "O-O-O" || s == "0-0-0" {
		return matchCastle(pos, FlagQueenCastle, orig)
	}

	promo := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 {
		if idx+1 >= len(s) {
			return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
		switch s[idx+1] {
		case 'N':
			promo = Knight
		case 'B':
			promo = Bishop
		case 'R':
			promo = Rook
		case 'Q':
			promo = Queen
		default:
			return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}
	s = s[:len(s)-2]

	// What remains is the origin disambiguation: file, rank, or both.
	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		default:
			return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
		}
	}

	for _, m := range pos.GenerateLegalMoves() {
		if m.To() != dest {
			continue
		}
		from := m.From()
		if pos.PieceAt(from).Type() != pt {
			continue
		}
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		// A capture marker on a quiet move is wrong; the reverse is
		// tolerated, some sources omit the x.
		if isCapture && !m.IsCapture() {
			continue
		}
		if m.IsPromotion() {
			if m.Promotion() != promo {
				continue
			}
		} else if promo != NoPieceType {
			continue
		}
		return m, nil
	}

	return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
}

func matchCastle(pos *Position, flag int, orig string) (Move, error) {
	for _, m := range pos.GenerateLegalMoves() {
		if m.Flag() == flag {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
}

// MovesToSAN renders a line of moves, advancing a scratch copy of the
// position through each one. The moves must form a legal line.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m)
	}

	return result
}
