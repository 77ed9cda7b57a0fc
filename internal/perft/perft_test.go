package perft

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hailam/chessstate/internal/board"
)

var positions = []struct {
	name  string
	fen   string
	depth int
	nodes uint64
}{
	{"start", board.StartFEN, 4, 197281},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
	{"position 3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
	{"position 4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
	{"position 5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 3, 62379},
}

func TestCount(t *testing.T) {
	for _, tc := range positions {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Count(context.Background(), board.MustParseFEN(tc.fen), tc.depth, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.nodes {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
			}
		})
	}
}

func TestDivide(t *testing.T) {
	r, err := Divide(context.Background(), board.NewGame(), 3, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Splits) != 20 {
		t.Fatalf("got %d root moves, want 20", len(r.Splits))
	}
	if r.Nodes != 8902 {
		t.Errorf("nodes = %d, want 8902", r.Nodes)
	}

	want := map[string]uint64{"e2e4": 600, "g1f3": 440, "a2a3": 380, "b1c3": 440}
	for _, sp := range r.Splits {
		if n, ok := want[sp.Move.String()]; ok && n != sp.Nodes {
			t.Errorf("%s: %d nodes, want %d", sp.Move, sp.Nodes, n)
		}
	}
}

func TestDivideDepthZero(t *testing.T) {
	r, err := Divide(context.Background(), board.NewGame(), 0, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if r.Nodes != 1 || len(r.Splits) != 0 {
		t.Errorf("depth 0 = %+v", r)
	}
	if _, err := Divide(context.Background(), board.NewGame(), -1, DefaultOptions()); err == nil {
		t.Error("negative depth accepted")
	}
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Count(ctx, board.NewGame(), 5, DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// mapCache is a Cache that remembers everything.
type mapCache struct {
	mu   sync.Mutex
	m    map[[2]uint64]uint64
	hits int
}

func (c *mapCache) Lookup(hash uint64, depth int) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.m[[2]uint64{hash, uint64(depth)}]
	if ok {
		c.hits++
	}
	return n, ok
}

func (c *mapCache) Record(hash uint64, depth int, nodes uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[[2]uint64{hash, uint64(depth)}] = nodes
}

func TestCachedCountsMatch(t *testing.T) {
	c := &mapCache{m: make(map[[2]uint64]uint64)}
	opts := DefaultOptions()
	opts.Cache = c
	opts.Workers = 1

	for _, tc := range positions[:3] {
		got, err := Count(context.Background(), board.MustParseFEN(tc.fen), tc.depth, opts)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.nodes {
			t.Errorf("%s: cached perft(%d) = %d, want %d", tc.name, tc.depth, got, tc.nodes)
		}
	}
	// A second pass is answered from the cache.
	got, err := Count(context.Background(), board.NewGame(), 4, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got != 197281 {
		t.Errorf("second pass = %d", got)
	}
	if c.hits == 0 {
		t.Error("second pass never hit the cache")
	}
}

func TestMemoryCache(t *testing.T) {
	mc, err := NewMemoryCache(1 << 16)
	if err != nil {
		t.Fatal(err)
	}
	defer mc.Close()

	opts := DefaultOptions()
	opts.Cache = mc
	got, err := Count(context.Background(), board.NewGame(), 4, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got != 197281 {
		t.Errorf("perft(4) = %d, want 197281", got)
	}

	mc.Record(42, 3, 9000)
	mc.Wait()
	if n, ok := mc.Lookup(42, 3); ok && n != 9000 {
		t.Errorf("Lookup = %d, want 9000", n)
	}
	if _, ok := mc.Lookup(42, 4); ok {
		t.Error("hit on a different depth")
	}
}
