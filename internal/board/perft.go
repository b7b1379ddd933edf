package board

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Known positions have published counts, so any deviation points at a
// move generation bug.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		p.MakeMove(m)
		nodes += Perft(p, depth-1)
		if err := p.UnmakeMove(); err != nil {
			panic(err)
		}
	}
	return nodes
}

// DivideEntry pairs a root move with its subtree node count.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs perft split by root move, which narrows a node-count
// mismatch down to a single branch. Entries are sorted by move string.
// The second return value is the total across all root moves.
func Divide(p *Position, depth int) ([]DivideEntry, uint64) {
	if depth <= 0 {
		return nil, 1
	}

	moves := p.GenerateLegalMoves()
	entries := make([]DivideEntry, 0, len(moves))
	var total uint64
	for _, m := range moves {
		p.MakeMove(m)
		nodes := Perft(p, depth-1)
		if err := p.UnmakeMove(); err != nil {
			panic(err)
		}
		entries = append(entries, DivideEntry{Move: m, Nodes: nodes})
		total += nodes
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries, total
}

// PerftParallel distributes the root moves of a perft run across worker
// goroutines. Each worker searches on its own copy of the position, so
// the only shared state is the move channel and the running total.
func PerftParallel(p *Position, depth, workers int) uint64 {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if depth <= 1 || workers == 1 {
		return Perft(p, depth)
	}

	moves := p.GenerateLegalMoves()
	if len(moves) < 2 {
		return Perft(p, depth)
	}
	if workers > len(moves) {
		workers = len(moves)
	}

	work := make(chan Move, len(moves))
	for _, m := range moves {
		work <- m
	}
	close(work)

	var total atomic.Uint64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pos := p.Copy()
			for m := range work {
				pos.MakeMove(m)
				total.Add(Perft(pos, depth-1))
				if err := pos.UnmakeMove(); err != nil {
					panic(err)
				}
			}
		}()
	}
	wg.Wait()

	return total.Load()
}
