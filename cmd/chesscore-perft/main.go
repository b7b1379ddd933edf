package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/verify"
)

var (
	fenFlag      = flag.String("fen", board.StartFEN, "position to count from")
	depthFlag    = flag.Int("depth", 5, "perft depth")
	divideFlag   = flag.Bool("divide", false, "print per-move subtree counts")
	workersFlag  = flag.Int("workers", 0, "parallel workers (0 = all CPUs, 1 = serial)")
	engineFlag   = flag.String("engine", "", "reference UCI engine binary to diff against")
	crossFlag    = flag.Bool("cross", false, "cross-check the total against dragontoothmg")
	cacheFlag    = flag.Bool("cache", false, "cache results in the data directory")
	cacheDirFlag = flag.String("cachedir", "", "cache location override (implies -cache)")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	pos, err := board.ParseFEN(*fenFlag)
	if err != nil {
		return err
	}
	fen := pos.ToFEN() // canonical form, also the cache key

	depth := *depthFlag
	if depth < 0 {
		return errors.New("depth must not be negative")
	}

	var store *storage.Store
	if *cacheFlag || *cacheDirFlag != "" {
		store, err = storage.Open(*cacheDirFlag)
		if err != nil {
			return fmt.Errorf("open result cache: %w", err)
		}
		defer store.Close()
	}

	var nodes uint64
	cached := false
	start := time.Now()

	if store != nil && !*divideFlag {
		res, err := store.Get(fen, depth)
		switch {
		case err == nil:
			nodes = res.Nodes
			cached = true
			fmt.Printf("Cached result from %s (%s)\n", res.Source, res.CreatedAt.Format(time.RFC3339))
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("cache lookup: %w", err)
		}
	}

	if !cached {
		if *divideFlag {
			var entries []board.DivideEntry
			entries, nodes = board.Divide(pos, depth)
			for _, e := range entries {
				fmt.Printf("%s: %d\n", e.Move, e.Nodes)
			}
			fmt.Println()
		} else {
			nodes = board.PerftParallel(pos, depth, *workersFlag)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if !cached && elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}

	if store != nil && !cached {
		err := store.Put(&storage.PerftResult{FEN: fen, Depth: depth, Nodes: nodes, Source: "perft"})
		if err != nil {
			return fmt.Errorf("cache store: %w", err)
		}
	}

	failed := false

	if *crossFlag {
		ours, theirs, err := verify.CrossCheck(fen, depth)
		if err != nil {
			return fmt.Errorf("cross-check: %w", err)
		}
		if ours == theirs {
			fmt.Printf("Cross-check: ok (%d nodes)\n", theirs)
		} else {
			fmt.Printf("Cross-check: MISMATCH ours=%d dragontoothmg=%d\n", ours, theirs)
			failed = true
		}
	}

	if *engineFlag != "" {
		report, err := verify.CompareEngine(context.Background(), *engineFlag, fen, depth)
		if err != nil {
			return fmt.Errorf("engine comparison: %w", err)
		}
		fmt.Println(report)

		if !report.Equal() {
			failed = true
		} else if store != nil {
			err := store.Put(&storage.PerftResult{FEN: fen, Depth: depth, Nodes: report.RefTotal, Source: filepath.Base(*engineFlag)})
			if err != nil {
				return fmt.Errorf("cache store: %w", err)
			}
		}
	}

	if failed {
		return errors.New("verification failed")
	}
	return nil
}
