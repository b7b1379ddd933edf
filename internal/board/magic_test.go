package board

import "testing"

// TestMagicAttacksExhaustive checks every square and every relevant
// occupancy subset against the slow ray-casting reference. Subsets are
// enumerated with the carry-rippler trick.
func TestMagicAttacksExhaustive(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		mask := bishopMask(sq)
		occ := Bitboard(0)
		for {
			want := bishopAttacksSlow(sq, occ)
			if got := BishopAttacks(sq, occ); got != want {
				t.Fatalf("BishopAttacks(%v, %x) = %x, want %x", sq, uint64(occ), uint64(got), uint64(want))
			}
			occ = (occ - mask) & mask
			if occ == 0 {
				break
			}
		}

		mask = rookMask(sq)
		occ = 0
		for {
			want := rookAttacksSlow(sq, occ)
			if got := RookAttacks(sq, occ); got != want {
				t.Fatalf("RookAttacks(%v, %x) = %x, want %x", sq, uint64(occ), uint64(got), uint64(want))
			}
			occ = (occ - mask) & mask
			if occ == 0 {
				break
			}
		}
	}
}

// TestMagicAttacksAnyOccupancy feeds occupancies with bits outside the
// relevant mask; the lookup must ignore them.
func TestMagicAttacksAnyOccupancy(t *testing.T) {
	rng := newPRNG(0xA5A5A5A50F0F0F0F)
	for sq := A1; sq <= H8; sq++ {
		for i := 0; i < 64; i++ {
			occ := Bitboard(rng.next() & rng.next())
			if got, want := BishopAttacks(sq, occ), bishopAttacksSlow(sq, occ); got != want {
				t.Fatalf("BishopAttacks(%v, %x) = %x, want %x", sq, uint64(occ), uint64(got), uint64(want))
			}
			if got, want := RookAttacks(sq, occ), rookAttacksSlow(sq, occ); got != want {
				t.Fatalf("RookAttacks(%v, %x) = %x, want %x", sq, uint64(occ), uint64(got), uint64(want))
			}
		}

		if got, want := RookAttacks(sq, Universe), rookAttacksSlow(sq, Universe); got != want {
			t.Fatalf("RookAttacks(%v, full board) = %x, want %x", sq, uint64(got), uint64(want))
		}
		if got, want := BishopAttacks(sq, Universe), bishopAttacksSlow(sq, Universe); got != want {
			t.Fatalf("BishopAttacks(%v, full board) = %x, want %x", sq, uint64(got), uint64(want))
		}
	}
}

func TestQueenAttacks(t *testing.T) {
	occ := SquareBB(D6) | SquareBB(F4) | SquareBB(B2)
	want := RookAttacks(D4, occ) | BishopAttacks(D4, occ)
	if got := QueenAttacks(D4, occ); got != want {
		t.Errorf("QueenAttacks(d4) = %x, want %x", uint64(got), uint64(want))
	}
}

// TestTryMagic checks that table population detects destructive collisions.
func TestTryMagic(t *testing.T) {
	sq := A1
	mask := rookMask(sq)
	bits := mask.PopCount()
	size := 1 << bits

	occs := make([]Bitboard, size)
	refs := make([]Bitboard, size)
	for i := 0; i < size; i++ {
		occs[i] = indexToOccupancy(i, bits, mask)
		refs[i] = rookAttacksSlow(sq, occs[i])
	}
	segment := make([]Bitboard, size)
	shift := uint8(64 - bits)

	if !tryMagic(rookMagicNumbers[sq], shift, segment, occs, refs) {
		t.Error("known rook magic for a1 rejected")
	}
	if tryMagic(0, shift, segment, occs, refs) {
		t.Error("zero magic accepted, collision detection broken")
	}
	if tryMagic(1, shift, segment, occs, refs) {
		t.Error("magic 1 accepted, collision detection broken")
	}
}

// TestMagicFallbackSearch forces the random search by offering no usable
// known constants, then verifies the replacement table it builds.
func TestMagicFallbackSearch(t *testing.T) {
	var magics [64]Magic
	table := make([]Bitboard, len(bishopTable))
	var zero [64]uint64

	rng := newPRNG(0x00A3C59D12E45B01)
	if err := buildMagics(&magics, table, &zero, bishopMask, bishopAttacksSlow, rng); err != nil {
		t.Fatalf("buildMagics found no replacement magics: %v", err)
	}

	lookup := func(sq Square, occ Bitboard) Bitboard {
		m := &magics[sq]
		idx := ((uint64(occ) & uint64(m.Mask)) * m.Magic) >> m.Shift
		return table[m.Offset+uint32(idx)]
	}

	for _, sq := range []Square{A1, D4, H8, E3} {
		mask := bishopMask(sq)
		occ := Bitboard(0)
		for {
			if got, want := lookup(sq, occ), bishopAttacksSlow(sq, occ); got != want {
				t.Fatalf("rebuilt table: lookup(%v, %x) = %x, want %x", sq, uint64(occ), uint64(got), uint64(want))
			}
			occ = (occ - mask) & mask
			if occ == 0 {
				break
			}
		}
	}
}

func TestMagicMasks(t *testing.T) {
	// Relevant masks exclude the board edges
	if mask := bishopMask(D4); mask&(Rank1|Rank8|FileA|FileH) != 0 {
		t.Errorf("bishopMask(d4) includes edge squares: %x", uint64(mask))
	}

	// Rook mask for d4: d-file minus d1/d8/d4, rank 4 minus a4/h4/d4
	want := (FileD &^ (Rank1 | Rank8) &^ SquareBB(D4)) | (Rank4 &^ (FileA | FileH) &^ SquareBB(D4))
	if got := rookMask(D4); got != want {
		t.Errorf("rookMask(d4) = %x, want %x", uint64(got), uint64(want))
	}

	// A corner rook still has a 12-bit mask
	if bits := rookMask(A1).PopCount(); bits != 12 {
		t.Errorf("rookMask(a1) has %d bits, want 12", bits)
	}
	if bits := bishopMask(A1).PopCount(); bits != 6 {
		t.Errorf("bishopMask(a1) has %d bits, want 6", bits)
	}
}
