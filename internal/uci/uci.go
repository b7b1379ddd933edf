// Package uci implements the minimal UCI command surface needed to
// drive the move generator from a GUI or a test harness: position
// setup, perft/divide, a debug board dump, and a random best move.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// UCI implements the Universal Chess Interface protocol. There is no
// search behind it; "go" answers with a uniformly random legal move.
type UCI struct {
	position *board.Position
	rng      *rand.Rand

	in  io.Reader
	out io.Writer
}

// New creates a new UCI protocol handler reading stdin and writing
// stdout. The move picker is seeded for reproducible games.
func New() *UCI {
	return &UCI{
		position: board.NewPosition(),
		rng:      rand.New(rand.NewSource(1)),
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// Run starts the UCI main loop. It returns when "quit" arrives or the
// input is exhausted.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "ucinewgame":
			u.position = board.NewPosition()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Nothing runs in the background, but GUIs send this anyway.
		case "quit":
			return
		// Debug commands
		case "d":
			fmt.Fprintln(u.out, u.position.String())
		case "perft":
			u.handlePerft(args)
		default:
			fmt.Fprintf(os.Stderr, "info string unknown command: %s\n", cmd)
		}
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Fprintln(u.out, "id name ChessCore")
	fmt.Fprintln(u.out, "id author ChessCore Team")
	fmt.Fprintln(u.out, "uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// The new position is built in full before it replaces the current one,
// so a bad FEN or move string leaves the handler's state untouched.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.Position
	var moveStart int

	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
		moveStart = 1
	case "fen":
		// The FEN runs until "moves" or the end of the arguments.
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}

		parsed, err := board.ParseFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid fen: %v\n", err)
			return
		}
		pos = parsed
		moveStart = fenEnd
	default:
		return
	}

	if moveStart < len(args) && args[moveStart] == "moves" {
		for _, moveStr := range args[moveStart+1:] {
			m, err := board.ParseMove(moveStr, pos)
			if err != nil {
				fmt.Fprintf(os.Stderr, "info string invalid move: %v\n", err)
				return
			}
			pos.MakeMove(m)
		}
	}

	u.position = pos
}

// handleGo answers "go perft <d>" with a divide run and every other
// "go" form with a random legal move. Search parameters (depth,
// movetime, clocks) are accepted and ignored.
func (u *UCI) handleGo(args []string) {
	if len(args) > 0 && args[0] == "perft" {
		u.handlePerft(args[1:])
		return
	}

	moves := u.position.GenerateLegalMoves()
	if len(moves) == 0 {
		fmt.Fprintln(u.out, "bestmove 0000")
		return
	}
	fmt.Fprintf(u.out, "bestmove %s\n", moves[u.rng.Intn(len(moves))])
}

// handlePerft runs a divide at the requested depth and reports the
// per-move counts, the total, and the node rate.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			fmt.Fprintf(os.Stderr, "info string invalid perft depth %q\n", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	entries, total := board.Divide(u.position, depth)
	elapsed := time.Since(start)

	for _, e := range entries {
		fmt.Fprintf(u.out, "%s: %d\n", e.Move, e.Nodes)
	}
	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "Nodes: %d\n", total)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(u.out, "NPS: %.0f\n", float64(total)/elapsed.Seconds())
	}
}
