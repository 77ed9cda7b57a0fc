package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/hailam/chessstate/internal/board"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("store: not found")

// Key prefixes
const (
	prefixState = "state/"
	prefixPerft = "perft/"
	prefixRun   = "run/"
)

// Options configures Open.
type Options struct {
	// Dir is the database directory. Empty selects DatabaseDir, unless
	// InMemory is set.
	Dir      string
	InMemory bool
	Logger   zerolog.Logger
}

// Run is a finished perft run as recorded by the CLI.
type Run struct {
	FEN        string        `json:"fen"`
	Depth      int           `json:"depth"`
	Nodes      uint64        `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Store wraps BadgerDB for persistent storage.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens or creates the database.
func Open(opts Options) (*Store, error) {
	dir := opts.Dir
	if dir == "" && !opts.InMemory {
		var err error
		if dir, err = DatabaseDir(); err != nil {
			return nil, err
		}
	}

	bopts := badger.DefaultOptions(dir).WithInMemory(opts.InMemory)
	bopts.Logger = nil // Disable logging

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", dir, err)
	}
	opts.Logger.Debug().Str("dir", dir).Bool("in_memory", opts.InMemory).Msg("store opened")
	return &Store{db: db, log: opts.Logger}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func stateKey(hash uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte(prefixState), hash)
}

func perftKey(hash uint64, depth int) []byte {
	k := binary.BigEndian.AppendUint64([]byte(prefixPerft), hash)
	return append(k, byte(depth))
}

// PutState stores st under its hash.
func (s *Store) PutState(st *board.State) error {
	data, err := st.MarshalBinary()
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey(st.Hash()), data)
	})
}

// GetState loads the state stored under hash.
func (s *Store) GetState(hash uint64) (*board.State, error) {
	var st *board.State
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey(hash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("state %016x: %w", hash, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			st, err = board.DecodeState(val)
			return err
		})
	})
	return st, err
}

// Lookup returns a stored perft count. It implements perft.Cache.
func (s *Store) Lookup(hash uint64, depth int) (uint64, bool) {
	var nodes uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(hash, depth))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("perft value of %d bytes", len(val))
			}
			nodes = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			s.log.Warn().Err(err).Uint64("hash", hash).Int("depth", depth).Msg("perft lookup failed")
		}
		return 0, false
	}
	return nodes, true
}

// Record stores a perft count. It implements perft.Cache; write failures
// are logged and otherwise ignored.
func (s *Store) Record(hash uint64, depth int, nodes uint64) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(hash, depth), binary.BigEndian.AppendUint64(nil, nodes))
	})
	if err != nil {
		s.log.Warn().Err(err).Uint64("hash", hash).Int("depth", depth).Msg("perft record failed")
	}
}

// SaveRun appends a finished run to the history.
func (s *Store) SaveRun(r Run) error {
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	key := binary.BigEndian.AppendUint64([]byte(prefixRun), uint64(r.RecordedAt.UnixNano()))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// Runs returns the recorded runs, oldest first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixRun)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r Run
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return err
			}
			runs = append(runs, r)
		}
		return nil
	})
	return runs, err
}
