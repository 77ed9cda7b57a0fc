// Command perft loads a position, replays moves on it and counts the
// legal move tree below the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"

	"github.com/hailam/chessstate/internal/board"
	"github.com/hailam/chessstate/internal/diagram"
	"github.com/hailam/chessstate/internal/notation"
	"github.com/hailam/chessstate/internal/perft"
	"github.com/hailam/chessstate/internal/store"
	"github.com/hailam/chessstate/internal/uci"
)

var (
	fen        = flag.String("fen", board.StartFEN, "starting position")
	uciMoves   = flag.String("moves", "", "space-separated UCI moves to play first")
	sanMoves   = flag.String("san", "", "space-separated SAN moves to play first")
	depth      = flag.Int("depth", 0, "perft depth, 0 to skip")
	divide     = flag.Bool("divide", false, "print node counts per root move")
	workers    = flag.Int("workers", 0, "root moves counted in parallel, 0 for all CPUs")
	cache      = flag.String("cache", "", "badger directory for memoized counts, \"mem\" for in-process")
	pngPath    = flag.String("png", "", "write a diagram of the position to this file")
	svgPath    = flag.String("svg", "", "write an SVG diagram of the position to this file")
	shell      = flag.Bool("uci", false, "read UCI-style commands from stdin instead")
	verbose    = flag.Bool("v", false, "debug logging")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
	if *verbose {
		log = log.Level(zerolog.DebugLevel)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	if *shell {
		if err := uci.New(os.Stdin, os.Stdout, uci.Options{Logger: log}).Run(); err != nil {
			log.Error().Err(err).Msg("reading commands")
		}
		return
	}

	if err := run(log); err != nil {
		log.Error().Err(err).Msg("perft failed")
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func run(log zerolog.Logger) error {
	st, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}
	if st, err = playUCI(st, strings.Fields(*uciMoves)); err != nil {
		return err
	}
	if st, err = notation.Play(st, strings.Fields(*sanMoves)...); err != nil {
		return err
	}

	fmt.Println(st)
	fmt.Println("fen:        ", st.ToFEN())
	fmt.Printf("hash:        %016x\n", st.Hash())
	fmt.Println("eval:       ", st.TaperedEval())

	term, err := st.Termination()
	if err != nil {
		return err
	}
	fmt.Println("termination:", term)

	legal := st.LegalMoves().Slice()
	san := make([]string, len(legal))
	for i, m := range legal {
		san[i] = notation.Format(st, m)
	}
	fmt.Printf("moves (%d):  %s\n", len(san), strings.Join(san, " "))

	if err := writeDiagrams(st); err != nil {
		return err
	}
	if *depth > 0 {
		return count(log, st)
	}
	return nil
}

func playUCI(st *board.State, moves []string) (*board.State, error) {
	for i, text := range moves {
		m, err := board.ParseMove(text, st)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		if st, err = st.Apply(m); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return st, nil
}

func writeDiagrams(st *board.State) error {
	if *pngPath == "" && *svgPath == "" {
		return nil
	}
	opts := diagram.DefaultOptions()
	opts.Flip = st.SideToMove() == board.Black
	opts.Highlight = st.SquaresAttackedBy(st.Enemy()) & st.SideOccupied(st.SideToMove())
	r, err := diagram.New(opts)
	if err != nil {
		return err
	}

	write := func(path string, render func(*os.File) error) error {
		if path == "" {
			return nil
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := render(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	if err := write(*pngPath, func(f *os.File) error { return r.PNG(f, st) }); err != nil {
		return err
	}
	return write(*svgPath, func(f *os.File) error { return r.SVG(f, st) })
}

func count(log zerolog.Logger, st *board.State) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := perft.DefaultOptions()
	opts.Logger = log
	opts.Workers = *workers

	var db *store.Store
	switch *cache {
	case "":
	case "mem":
		mc, err := perft.NewMemoryCache(1 << 22)
		if err != nil {
			return err
		}
		defer mc.Close()
		opts.Cache = mc
	default:
		var err error
		db, err = store.Open(store.Options{Dir: *cache, Logger: log})
		if err != nil {
			return err
		}
		defer db.Close()
		opts.Cache = db
	}

	res, err := perft.Divide(ctx, st, *depth, opts)
	if err != nil {
		return err
	}

	if *divide {
		counts := make(map[string]uint64, len(res.Splits))
		for _, sp := range res.Splits {
			counts[sp.Move.String()] = sp.Nodes
		}
		for _, k := range slices.Sorted(maps.Keys(counts)) {
			fmt.Printf("%s: %d\n", k, counts[k])
		}
		fmt.Println()
	}
	fmt.Printf("nodes: %d  time: %v  nps: %.0f\n", res.Nodes, res.Elapsed.Round(time.Millisecond), res.NPS())

	if db != nil {
		if err := db.PutState(st); err != nil {
			return err
		}
		return db.SaveRun(store.Run{
			FEN:     st.ToFEN(),
			Depth:   res.Depth,
			Nodes:   res.Nodes,
			Elapsed: res.Elapsed,
		})
	}
	return nil
}
