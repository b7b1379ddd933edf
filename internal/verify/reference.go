package verify

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"

	"github.com/hailam/chesscore/internal/board"
)

// CrossCheck runs the same perft on our generator and on dragontoothmg
// and returns both totals. The two implementations share no code, so
// agreement is strong evidence both are right.
func CrossCheck(fen string, depth int) (ours, theirs uint64, err error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return 0, 0, fmt.Errorf("parse fen: %w", err)
	}
	ours = board.Perft(pos, depth)

	ref := dragontoothmg.ParseFen(fen)
	theirs = referencePerft(&ref, depth)
	return ours, theirs, nil
}

func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}
