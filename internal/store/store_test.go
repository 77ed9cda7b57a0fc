package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessstate/internal/board"
	"github.com/hailam/chessstate/internal/perft"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{InMemory: true, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var _ perft.Cache = (*Store)(nil)

func TestStateRoundTrip(t *testing.T) {
	s := openTest(t)

	st := board.MustParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	next, err := st.Apply(board.NewMove(board.D5, board.E6))
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []*board.State{board.NewGame(), st, next} {
		if err := s.PutState(want); err != nil {
			t.Fatalf("PutState: %v", err)
		}
		got, err := s.GetState(want.Hash())
		if err != nil {
			t.Fatalf("GetState: %v", err)
		}
		if got.ToFEN() != want.ToFEN() || got.RecentHashes() != want.RecentHashes() {
			t.Errorf("GetState = %s, want %s", got.ToFEN(), want.ToFEN())
		}
	}

	if _, err := s.GetState(12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetState(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPerftCache(t *testing.T) {
	s := openTest(t)

	if _, ok := s.Lookup(1, 2); ok {
		t.Fatal("hit on empty store")
	}
	s.Record(1, 2, 400)
	if n, ok := s.Lookup(1, 2); !ok || n != 400 {
		t.Errorf("Lookup = %d, %v, want 400, true", n, ok)
	}
	if _, ok := s.Lookup(1, 3); ok {
		t.Error("hit on a different depth")
	}

	opts := perft.DefaultOptions()
	opts.Cache = s
	for i := 0; i < 2; i++ {
		n, err := perft.Count(context.Background(), board.NewGame(), 3, opts)
		if err != nil {
			t.Fatal(err)
		}
		if n != 8902 {
			t.Errorf("pass %d: perft(3) = %d, want 8902", i, n)
		}
	}
}

func TestRuns(t *testing.T) {
	s := openTest(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, depth := range []int{3, 4} {
		err := s.SaveRun(Run{
			FEN:        board.StartFEN,
			Depth:      depth,
			Nodes:      uint64(depth) * 1000,
			Elapsed:    time.Second,
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Depth != 3 || runs[1].Depth != 4 {
		t.Errorf("runs out of order: %+v", runs)
	}
	if !runs[1].RecordedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("RecordedAt = %v", runs[1].RecordedAt)
	}
}

func TestOpenDir(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{Dir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.PutState(board.NewGame()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(Options{Dir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.GetState(board.NewGame().Hash()); err != nil {
		t.Errorf("state lost across reopen: %v", err)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dir, err := DatabaseDir()
	if err != nil {
		t.Fatalf("DatabaseDir: %v", err)
	}
	if dir == "" {
		t.Error("DatabaseDir returned empty path")
	}
}
