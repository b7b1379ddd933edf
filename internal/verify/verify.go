// Package verify checks our move generator against independent
// references: an external UCI engine driven over pipes, and the
// dragontoothmg generator linked in process.
package verify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/hailam/chesscore/internal/board"
)

// DefaultEnginePath is the reference engine binary used when the
// caller does not name one.
const DefaultEnginePath = "stockfish"

// Mismatch is a root move both generators produce but with different
// subtree node counts.
type Mismatch struct {
	Move string
	Ours uint64
	Ref  uint64
}

// Report is the outcome of diffing our divide against a reference.
// Move lists are sorted by move string.
type Report struct {
	FEN      string
	Depth    int
	OurTotal uint64
	RefTotal uint64

	Matched    int        // moves with identical counts
	Mismatches []Mismatch // both sides, different counts
	Missing    []string   // the reference has these, we do not
	Unexpected []string   // we have these, the reference does not
}

// Equal reports whether the two generators agree completely.
func (r *Report) Equal() bool {
	return len(r.Mismatches) == 0 && len(r.Missing) == 0 &&
		len(r.Unexpected) == 0 && r.OurTotal == r.RefTotal
}

func (r *Report) String() string {
	if r.Equal() {
		return fmt.Sprintf("OK: %d moves, %d nodes at depth %d", r.Matched, r.OurTotal, r.Depth)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MISMATCH at depth %d: ours %d, reference %d\n", r.Depth, r.OurTotal, r.RefTotal)
	for _, m := range r.Mismatches {
		fmt.Fprintf(&b, "  %s: ours %d, reference %d\n", m.Move, m.Ours, m.Ref)
	}
	for _, ms := range r.Missing {
		fmt.Fprintf(&b, "  %s: we do not generate this move\n", ms)
	}
	for _, ms := range r.Unexpected {
		fmt.Fprintf(&b, "  %s: the reference does not generate this move\n", ms)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CompareEngine runs a perft divide on an external UCI engine and
// diffs it against ours. The engine is spawned fresh, fed
// "position fen"/"go perft"/"quit" over stdin, and read until it
// exits. Canceling the context kills it.
func CompareEngine(ctx context.Context, enginePath, fen string, depth int) (*Report, error) {
	if enginePath == "" {
		enginePath = DefaultEnginePath
	}

	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, enginePath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start reference engine: %w", err)
	}

	fmt.Fprintf(stdin, "position fen %s\n", fen)
	fmt.Fprintf(stdin, "go perft %d\n", depth)
	fmt.Fprintln(stdin, "quit")
	stdin.Close()

	refMoves, refTotal, parseErr := ParseDivide(stdout)
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if parseErr != nil {
		return nil, fmt.Errorf("reference engine output: %w", parseErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("reference engine: %w", waitErr)
	}

	entries, ourTotal := board.Divide(pos, depth)
	return diff(fen, depth, entries, ourTotal, refMoves, refTotal), nil
}

// ParseDivide reads UCI perft output: "<move>: <count>" lines followed
// by a node total ("Nodes searched: N" or "Nodes: N"). Banners, info
// strings and blank lines are ignored.
func ParseDivide(r io.Reader) (map[string]uint64, uint64, error) {
	moves := make(map[string]uint64)
	var total uint64
	sawTotal := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "Nodes") {
			fields := strings.Fields(line)
			n, err := strconv.ParseUint(fields[len(fields)-1], 10, 64)
			if err != nil {
				return nil, 0, fmt.Errorf("bad node total %q", line)
			}
			total = n
			sawTotal = true
			continue
		}

		moveStr, countStr, ok := strings.Cut(line, ":")
		if !ok || !isMoveString(moveStr) {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
		if err != nil {
			continue
		}
		moves[moveStr] = n
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	if !sawTotal {
		return nil, 0, errors.New("no node total in engine output")
	}
	return moves, total, nil
}

// isMoveString matches long algebraic form: e2e4, e7e8q.
func isMoveString(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' ||
		s[2] < 'a' || s[2] > 'h' || s[3] < '1' || s[3] > '8' {
		return false
	}
	if len(s) == 5 {
		switch s[4] {
		case 'n', 'b', 'r', 'q':
		default:
			return false
		}
	}
	return true
}

func diff(fen string, depth int, ours []board.DivideEntry, ourTotal uint64, ref map[string]uint64, refTotal uint64) *Report {
	r := &Report{FEN: fen, Depth: depth, OurTotal: ourTotal, RefTotal: refTotal}

	seen := make(map[string]bool, len(ours))
	for _, e := range ours {
		ms := e.Move.String()
		seen[ms] = true

		refNodes, ok := ref[ms]
		switch {
		case !ok:
			r.Unexpected = append(r.Unexpected, ms)
		case refNodes != e.Nodes:
			r.Mismatches = append(r.Mismatches, Mismatch{Move: ms, Ours: e.Nodes, Ref: refNodes})
		default:
			r.Matched++
		}
	}

	for ms := range ref {
		if !seen[ms] {
			r.Missing = append(r.Missing, ms)
		}
	}
	sort.Strings(r.Missing)

	return r
}
