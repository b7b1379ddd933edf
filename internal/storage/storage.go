package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned by Get when no result is cached for the
// requested position and depth.
var ErrNotFound = errors.New("no cached result")

// PerftResult records one verified node count.
type PerftResult struct {
	FEN       string    `json:"fen"`
	Depth     int       `json:"depth"`
	Nodes     uint64    `json:"nodes"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps BadgerDB for persistent perft results.
type Store struct {
	db *badger.DB
}

// Open opens the result cache in dir, creating it as needed. An empty
// dir selects the platform data directory.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		dir, err = DatabaseDir()
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func resultKey(fen string, depth int) []byte {
	return []byte(fmt.Sprintf("perft/%s/%d", fen, depth))
}

// Put stores a result, stamping it with the current time.
func (s *Store) Put(res *PerftResult) error {
	res.CreatedAt = time.Now()

	data, err := json.Marshal(res)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(resultKey(res.FEN, res.Depth), data)
	})
}

// Get loads the cached result for a position and depth. A cache miss
// is reported as ErrNotFound.
func (s *Store) Get(fen string, depth int) (*PerftResult, error) {
	res := &PerftResult{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(resultKey(fen, depth))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, res)
		})
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
