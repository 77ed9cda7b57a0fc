// Package perft counts the leaf nodes of the legal move tree below a
// position. Node counts for well-known positions are published, which
// makes perft the standard check of move generation and state transitions.
package perft

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessstate/internal/board"
)

// Cache memoizes subtree node counts by position hash and remaining depth.
// Implementations must be safe for concurrent use.
type Cache interface {
	Lookup(hash uint64, depth int) (uint64, bool)
	Record(hash uint64, depth int, nodes uint64)
}

// Options configures a count.
type Options struct {
	Logger zerolog.Logger

	// Cache is consulted for subtrees at least MinCacheDepth deep. Nil
	// disables memoization.
	Cache         Cache
	MinCacheDepth int

	// Workers bounds the root moves searched in parallel. Zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultOptions returns options with logging disabled and no cache.
func DefaultOptions() Options {
	return Options{
		Logger:        zerolog.Nop(),
		MinCacheDepth: 2,
	}
}

// Split is the node count below one root move.
type Split struct {
	Move  board.Move
	Nodes uint64
}

// Result is the outcome of a divide.
type Result struct {
	Depth   int
	Nodes   uint64
	Splits  []Split
	Elapsed time.Duration
}

// NPS returns nodes per second.
func (r Result) NPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Nodes) / r.Elapsed.Seconds()
}

// Count returns the number of leaf nodes depth plies below s.
func Count(ctx context.Context, s *board.State, depth int, opts Options) (uint64, error) {
	r, err := Divide(ctx, s, depth, opts)
	if err != nil {
		return 0, err
	}
	return r.Nodes, nil
}

// Divide counts the nodes below each legal root move, searching the root
// moves in parallel. Splits are in move generation order.
func Divide(ctx context.Context, s *board.State, depth int, opts Options) (Result, error) {
	if depth < 0 {
		return Result{}, fmt.Errorf("perft: negative depth %d", depth)
	}
	start := time.Now()
	res := Result{Depth: depth}
	if depth == 0 {
		res.Nodes = 1
		return res, nil
	}

	moves := s.LegalMoves().Slice()
	res.Splits = make([]Split, len(moves))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, m := range moves {
		g.Go(func() error {
			next, err := s.Apply(m)
			if err != nil {
				return fmt.Errorf("perft: root move %s: %w", m, err)
			}
			c := counter{ctx: ctx, opts: &opts}
			n, err := c.count(next, depth-1)
			if err != nil {
				return err
			}
			res.Splits[i] = Split{Move: m, Nodes: n}
			opts.Logger.Debug().Str("move", m.String()).Uint64("nodes", n).Msg("root move done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	for _, sp := range res.Splits {
		res.Nodes += sp.Nodes
	}
	res.Elapsed = time.Since(start)
	opts.Logger.Info().
		Int("depth", depth).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Float64("nps", res.NPS()).
		Msg("perft complete")
	return res, nil
}

// counter walks one subtree on a single goroutine.
type counter struct {
	ctx  context.Context
	opts *Options
}

func (c *counter) count(s *board.State, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}

	moves := s.LegalMoves()
	if depth == 1 {
		return uint64(moves.Len()), nil
	}

	cached := c.opts.Cache != nil && depth >= c.opts.MinCacheDepth
	if cached {
		if n, ok := c.opts.Cache.Lookup(s.Hash(), depth); ok {
			return n, nil
		}
	}
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		next, err := s.Apply(m)
		if err != nil {
			return 0, fmt.Errorf("perft: %s: %w", m, err)
		}
		n, err := c.count(next, depth-1)
		if err != nil {
			return 0, err
		}
		nodes += n
	}

	if cached {
		c.opts.Cache.Record(s.Hash(), depth, nodes)
	}
	return nodes, nil
}
