package board

import (
	"errors"
	"testing"
)

// samePosition compares the externally observable state of two positions.
// Position contains the undo stack, so == is not usable here.
func samePosition(t *testing.T, got, want *Position) {
	t.Helper()
	if got.ToFEN() != want.ToFEN() {
		t.Errorf("FEN mismatch:\n got %s\nwant %s", got.ToFEN(), want.ToFEN())
	}
	if got.Hash != want.Hash {
		t.Errorf("hash mismatch: got %016x, want %016x", got.Hash, want.Hash)
	}
	if got.Checkers != want.Checkers {
		t.Errorf("checkers mismatch: got %v, want %v", got.Checkers, want.Checkers)
	}
	if got.KingSquare != want.KingSquare {
		t.Errorf("king squares mismatch: got %v, want %v", got.KingSquare, want.KingSquare)
	}
	if got.AllOccupied != want.AllOccupied {
		t.Errorf("occupancy mismatch: got %v, want %v", got.AllOccupied, want.AllOccupied)
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			ref, _ := ParseFEN(fen)

			for _, m := range pos.GenerateLegalMoves() {
				pos.MakeMove(m)
				if err := pos.UnmakeMove(); err != nil {
					t.Fatalf("UnmakeMove after %v: %v", m, err)
				}
				samePosition(t, pos, ref)
			}
		})
	}
}

func TestUndoStackLIFO(t *testing.T) {
	pos := NewPosition()
	startFEN := pos.ToFEN()

	line := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6", "e1g1"}
	fens := make([]string, 0, len(line))

	for _, s := range line {
		fens = append(fens, pos.ToFEN())
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		pos.MakeMove(m)
	}

	if pos.UndoDepth() != len(line) {
		t.Fatalf("undo depth = %d, want %d", pos.UndoDepth(), len(line))
	}

	for i := len(fens) - 1; i >= 0; i-- {
		if err := pos.UnmakeMove(); err != nil {
			t.Fatalf("UnmakeMove %d: %v", i, err)
		}
		if got := pos.ToFEN(); got != fens[i] {
			t.Errorf("after unmake %d:\n got %s\nwant %s", i, got, fens[i])
		}
		if pos.Hash != pos.ComputeHash() {
			t.Errorf("after unmake %d: incremental hash %016x != recomputed %016x", i, pos.Hash, pos.ComputeHash())
		}
	}

	if pos.ToFEN() != startFEN {
		t.Errorf("position not restored to start:\n got %s\nwant %s", pos.ToFEN(), startFEN)
	}
	if pos.UndoDepth() != 0 {
		t.Errorf("undo depth = %d after full rewind, want 0", pos.UndoDepth())
	}
}

func TestUnmakeUnderflow(t *testing.T) {
	pos := NewPosition()

	if err := pos.UnmakeMove(); !errors.Is(err, ErrUndoUnderflow) {
		t.Errorf("UnmakeMove on fresh position = %v, want ErrUndoUnderflow", err)
	}

	m, _ := ParseMove("e2e4", pos)
	pos.MakeMove(m)
	if err := pos.UnmakeMove(); err != nil {
		t.Fatalf("UnmakeMove: %v", err)
	}
	if err := pos.UnmakeMove(); !errors.Is(err, ErrUndoUnderflow) {
		t.Errorf("second UnmakeMove = %v, want ErrUndoUnderflow", err)
	}
}

func TestIncrementalHash(t *testing.T) {
	pos := NewPosition()

	line := []string{"e2e4", "d7d5", "e4d5", "d8d5", "b1c3", "d5a5", "d2d4", "c7c6", "g1f3", "c8g4"}
	for _, s := range line {
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		pos.MakeMove(m)
		if pos.Hash != pos.ComputeHash() {
			t.Errorf("after %s: incremental hash %016x != recomputed %016x", s, pos.Hash, pos.ComputeHash())
		}
	}
}

func TestHashDiffersByState(t *testing.T) {
	base, _ := ParseFEN(StartFEN)

	// Same placement, different side to move
	other, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	if base.Hash == other.Hash {
		t.Error("hash ignores side to move")
	}

	// Same placement, different castling rights
	other, err = ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w Kkq - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	if base.Hash == other.Hash {
		t.Error("hash ignores castling rights")
	}
}

func TestCopyIndependence(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	fen := pos.ToFEN()

	cp := pos.Copy()
	if cp.UndoDepth() != 0 {
		t.Errorf("copy starts with undo depth %d, want 0", cp.UndoDepth())
	}

	// Driving the copy must not disturb the original
	for _, s := range []string{"e2a6", "b4c3", "d2c3"} {
		m, err := ParseMove(s, cp)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		cp.MakeMove(m)
	}
	if got := pos.ToFEN(); got != fen {
		t.Errorf("original changed by moves on copy:\n got %s\nwant %s", got, fen)
	}

	// The copy cannot rewind into the original's history
	pos.MakeMove(pos.GenerateLegalMoves()[0])
	cp2 := pos.Copy()
	if err := cp2.UnmakeMove(); !errors.Is(err, ErrUndoUnderflow) {
		t.Errorf("UnmakeMove on fresh copy = %v, want ErrUndoUnderflow", err)
	}
}

func TestNullMove(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	fen := pos.ToFEN()
	hash := pos.Hash

	undo := pos.MakeNullMove()

	if pos.SideToMove != White {
		t.Errorf("side after null move = %v, want White", pos.SideToMove)
	}
	if pos.EnPassant != NoSquare {
		t.Errorf("en passant after null move = %v, want none", pos.EnPassant)
	}
	if pos.Hash == hash {
		t.Error("hash unchanged by null move")
	}
	if pos.Hash != pos.ComputeHash() {
		t.Errorf("null move hash %016x != recomputed %016x", pos.Hash, pos.ComputeHash())
	}

	pos.UnmakeNullMove(undo)
	if pos.ToFEN() != fen {
		t.Errorf("null move not reversed:\n got %s\nwant %s", pos.ToFEN(), fen)
	}
	if pos.Hash != hash {
		t.Errorf("hash after unmake = %016x, want %016x", pos.Hash, hash)
	}
}

func TestValidateRejectsBadPositions(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"no white king", "k7/8/8/8/8/8/8/8 w - - 0 1"},
		{"two black kings", "kk6/8/8/8/8/8/8/K7 w - - 0 1"},
		{"pawn on rank 1", "k7/8/8/8/8/8/8/KP6 w - - 0 1"},
		{"pawn on rank 8", "kP6/8/8/8/8/8/8/K7 w - - 0 1"},
		{"side not to move in check", "k7/8/8/8/8/8/8/RK6 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFEN(tc.fen); !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("ParseFEN(%q) = %v, want ErrInvalidFEN", tc.fen, err)
			}
		})
	}
}

func TestPieceAt(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		sq   Square
		want Piece
	}{
		{E1, WhiteKing},
		{D8, BlackQueen},
		{A2, WhitePawn},
		{G8, BlackKnight},
		{E4, NoPiece},
	}

	for _, tc := range tests {
		if got := pos.PieceAt(tc.sq); got != tc.want {
			t.Errorf("PieceAt(%v) = %v, want %v", tc.sq, got, tc.want)
		}
	}
}

func TestComputePinned(t *testing.T) {
	// Knight e2 pinned by rook e3; bishop d2 not pinned
	pos, err := ParseFEN("4k3/8/8/8/8/4r3/3BN3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	pinned := pos.ComputePinned()
	if !pinned.IsSet(E2) {
		t.Error("knight on e2 not reported as pinned")
	}
	if pinned.IsSet(D2) {
		t.Error("bishop on d2 wrongly reported as pinned")
	}
}
