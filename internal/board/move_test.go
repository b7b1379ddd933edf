package board

import (
	"errors"
	"testing"
)

func TestMoveEncoding(t *testing.T) {
	tests := []struct {
		from Square
		to   Square
		flag int
	}{
		{A1, H8, FlagQuiet},
		{E2, E4, FlagDoublePawnPush},
		{E1, G1, FlagKingCastle},
		{E8, C8, FlagQueenCastle},
		{D5, E6, FlagCapture},
		{E5, F6, FlagEnPassant},
		{H8, A1, FlagPromoCapQueen},
	}

	for _, tc := range tests {
		m := NewMove(tc.from, tc.to, tc.flag)
		if m.From() != tc.from {
			t.Errorf("NewMove(%v,%v,%d).From() = %v", tc.from, tc.to, tc.flag, m.From())
		}
		if m.To() != tc.to {
			t.Errorf("NewMove(%v,%v,%d).To() = %v", tc.from, tc.to, tc.flag, m.To())
		}
		if m.Flag() != tc.flag {
			t.Errorf("NewMove(%v,%v,%d).Flag() = %d", tc.from, tc.to, tc.flag, m.Flag())
		}
	}
}

func TestMovePredicates(t *testing.T) {
	tests := []struct {
		name      string
		m         Move
		capture   bool
		promotion bool
		enPassant bool
		castle    bool
		promo     PieceType
	}{
		{"quiet", NewMove(G1, F3, FlagQuiet), false, false, false, false, NoPieceType},
		{"double push", NewMove(E2, E4, FlagDoublePawnPush), false, false, false, false, NoPieceType},
		{"king castle", NewMove(E1, G1, FlagKingCastle), false, false, false, true, NoPieceType},
		{"queen castle", NewMove(E8, C8, FlagQueenCastle), false, false, false, true, NoPieceType},
		{"capture", NewMove(D5, E6, FlagCapture), true, false, false, false, NoPieceType},
		{"en passant", NewMove(E5, F6, FlagEnPassant), true, false, true, false, NoPieceType},
		{"promo knight", NewPromotion(A7, A8, Knight, false), false, true, false, false, Knight},
		{"promo queen", NewPromotion(A7, A8, Queen, false), false, true, false, false, Queen},
		{"promo capture rook", NewPromotion(A7, B8, Rook, true), true, true, false, false, Rook},
		{"promo capture bishop", NewPromotion(A7, B8, Bishop, true), true, true, false, false, Bishop},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.IsCapture(); got != tc.capture {
				t.Errorf("IsCapture() = %v, want %v", got, tc.capture)
			}
			if got := tc.m.IsPromotion(); got != tc.promotion {
				t.Errorf("IsPromotion() = %v, want %v", got, tc.promotion)
			}
			if got := tc.m.IsEnPassant(); got != tc.enPassant {
				t.Errorf("IsEnPassant() = %v, want %v", got, tc.enPassant)
			}
			if got := tc.m.IsCastle(); got != tc.castle {
				t.Errorf("IsCastle() = %v, want %v", got, tc.castle)
			}
			if got := tc.m.Promotion(); got != tc.promo {
				t.Errorf("Promotion() = %v, want %v", got, tc.promo)
			}
		})
	}
}

func TestMoveString(t *testing.T) {
	tests := []struct {
		m    Move
		want string
	}{
		{NewMove(E2, E4, FlagDoublePawnPush), "e2e4"},
		{NewMove(E1, G1, FlagKingCastle), "e1g1"},
		{NewPromotion(E7, E8, Queen, false), "e7e8q"},
		{NewPromotion(A7, B8, Knight, true), "a7b8n"},
		{NewPromotion(H2, H1, Rook, false), "h2h1r"},
		{NewPromotion(G2, H1, Bishop, true), "g2h1b"},
		{NullMove, "0000"},
	}

	for _, tc := range tests {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestParseMoveRejects(t *testing.T) {
	pos := NewPosition()

	bad := []string{
		"",
		"e2",
		"e2e4qq",
		"z9e4",
		"e2x4",
		"e2e5",   // pawn cannot jump three ranks
		"e7e5",   // black piece, white to move
		"e1g1",   // no castling rights exercised yet
		"e2e4x",  // bad promotion letter
		"e2e4q",  // promotion flagged on a non-promotion move
		"0000",
	}

	for _, s := range bad {
		if _, err := ParseMove(s, pos); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseMove(%q) = %v, want ErrInvalidMove", s, err)
		}
	}
}

func TestParseMovePromotionSuffix(t *testing.T) {
	pos, err := ParseFEN("8/P7/8/8/8/8/8/k5K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	// The bare move without a promotion piece matches nothing
	if _, err := ParseMove("a7a8", pos); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("ParseMove(a7a8) = %v, want ErrInvalidMove", err)
	}

	for s, want := range map[string]PieceType{
		"a7a8q": Queen,
		"a7a8r": Rook,
		"a7a8b": Bishop,
		"a7a8n": Knight,
	} {
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Errorf("ParseMove(%s): %v", s, err)
			continue
		}
		if m.Promotion() != want {
			t.Errorf("ParseMove(%s).Promotion() = %v, want %v", s, m.Promotion(), want)
		}
	}
}

func TestParseMoveDoesNotMutate(t *testing.T) {
	pos := NewPosition()
	fen := pos.ToFEN()
	hash := pos.Hash

	if _, err := ParseMove("e2e4", pos); err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if _, err := ParseMove("e2e5", pos); err == nil {
		t.Fatal("ParseMove(e2e5) unexpectedly succeeded")
	}

	if pos.ToFEN() != fen {
		t.Errorf("position mutated by ParseMove:\n got %s\nwant %s", pos.ToFEN(), fen)
	}
	if pos.Hash != hash {
		t.Errorf("hash mutated by ParseMove: got %016x, want %016x", pos.Hash, hash)
	}
	if pos.UndoDepth() != 0 {
		t.Errorf("undo stack grew to %d during ParseMove", pos.UndoDepth())
	}
}
