package board

import "testing"

func TestKnightAttacks(t *testing.T) {
	tests := []struct {
		sq   Square
		want Bitboard
	}{
		{A1, SquareBB(B3) | SquareBB(C2)},
		{H8, SquareBB(G6) | SquareBB(F7)},
		{D4, SquareBB(B3) | SquareBB(B5) | SquareBB(C2) | SquareBB(C6) |
			SquareBB(E2) | SquareBB(E6) | SquareBB(F3) | SquareBB(F5)},
	}
	for _, tt := range tests {
		if got := KnightAttacks(tt.sq); got != tt.want {
			t.Errorf("KnightAttacks(%v) = %x, want %x", tt.sq, uint64(got), uint64(tt.want))
		}
	}
}

func TestKingAttacks(t *testing.T) {
	if got, want := KingAttacks(A1), SquareBB(A2)|SquareBB(B1)|SquareBB(B2); got != want {
		t.Errorf("KingAttacks(a1) = %x, want %x", uint64(got), uint64(want))
	}
	if got := KingAttacks(E4).PopCount(); got != 8 {
		t.Errorf("KingAttacks(e4) has %d squares, want 8", got)
	}
	if got := KingAttacks(H4).PopCount(); got != 5 {
		t.Errorf("KingAttacks(h4) has %d squares, want 5", got)
	}
}

func TestPawnAttacks(t *testing.T) {
	tests := []struct {
		sq    Square
		color Color
		want  Bitboard
	}{
		{E4, White, SquareBB(D5) | SquareBB(F5)},
		{E4, Black, SquareBB(D3) | SquareBB(F3)},
		{A4, White, SquareBB(B5)},
		{H5, Black, SquareBB(G4)},
	}
	for _, tt := range tests {
		if got := PawnAttacks(tt.sq, tt.color); got != tt.want {
			t.Errorf("PawnAttacks(%v, %v) = %x, want %x", tt.sq, tt.color, uint64(got), uint64(tt.want))
		}
	}
}

func TestBetween(t *testing.T) {
	tests := []struct {
		sq1, sq2 Square
		want     Bitboard
	}{
		{A1, A8, SquareBB(A2) | SquareBB(A3) | SquareBB(A4) | SquareBB(A5) | SquareBB(A6) | SquareBB(A7)},
		{A1, H8, SquareBB(B2) | SquareBB(C3) | SquareBB(D4) | SquareBB(E5) | SquareBB(F6) | SquareBB(G7)},
		{B2, G7, SquareBB(C3) | SquareBB(D4) | SquareBB(E5) | SquareBB(F6)},
		{E4, E5, Empty},
		{A1, B3, Empty}, // knight relation, not aligned
		{D4, D4, Empty},
	}
	for _, tt := range tests {
		if got := Between(tt.sq1, tt.sq2); got != tt.want {
			t.Errorf("Between(%v, %v) = %x, want %x", tt.sq1, tt.sq2, uint64(got), uint64(tt.want))
		}
		if got := Between(tt.sq2, tt.sq1); got != tt.want {
			t.Errorf("Between(%v, %v) = %x, want %x", tt.sq2, tt.sq1, uint64(got), uint64(tt.want))
		}
	}
}

func TestLineAndAligned(t *testing.T) {
	if got := Line(E1, E4); got != FileE {
		t.Errorf("Line(e1, e4) = %x, want the e-file", uint64(got))
	}
	if got := Line(A4, C4); got != Rank4 {
		t.Errorf("Line(a4, c4) = %x, want rank 4", uint64(got))
	}
	if got := Line(A1, B3); got != Empty {
		t.Errorf("Line(a1, b3) = %x, want empty", uint64(got))
	}

	if !Aligned(E1, E4, E8) {
		t.Error("Aligned(e1, e4, e8) = false, want true")
	}
	if !Aligned(A1, D4, H8) {
		t.Error("Aligned(a1, d4, h8) = false, want true")
	}
	if Aligned(A1, B2, C4) {
		t.Error("Aligned(a1, b2, c4) = true, want false")
	}
}

func TestAttackersTo(t *testing.T) {
	// Rook a1 (through the empty a2), pawn b2 and knight c4 all hit a3.
	pos, err := ParseFEN("4k3/8/8/8/2n5/8/1P6/R3K3 w Q - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	want := SquareBB(A1) | SquareBB(B2) | SquareBB(C4)
	if got := pos.AttackersTo(A3, pos.AllOccupied); got != want {
		t.Errorf("AttackersTo(a3) = %x, want %x", uint64(got), uint64(want))
	}

	if got := pos.AttackersByColor(A3, White, pos.AllOccupied); got != SquareBB(A1)|SquareBB(B2) {
		t.Errorf("white attackers of a3 = %x", uint64(got))
	}
	if got := pos.AttackersByColor(A3, Black, pos.AllOccupied); got != SquareBB(C4) {
		t.Errorf("black attackers of a3 = %x", uint64(got))
	}

	// Blocking a2 cuts the rook out.
	occ := pos.AllOccupied | SquareBB(A2)
	if got := pos.AttackersTo(A3, occ); got != SquareBB(B2)|SquareBB(C4) {
		t.Errorf("AttackersTo(a3) with blocked a-file = %x", uint64(got))
	}
}

func TestIsSquareAttacked(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/2n5/8/1P6/R3K3 w Q - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	if !pos.IsSquareAttacked(A3, White) {
		t.Error("a3 should be attacked by white")
	}
	if !pos.IsSquareAttacked(A3, Black) {
		t.Error("a3 should be attacked by black")
	}
	if pos.IsSquareAttacked(H5, White) {
		t.Error("h5 should not be attacked by white")
	}
	if !pos.IsSquareAttacked(D2, Black) {
		t.Error("d2 should be attacked by the c4 knight")
	}
}
