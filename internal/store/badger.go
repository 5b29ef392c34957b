package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/lgbarn/movehint-go/internal/errors"
)

// BadgerStore keeps history in an embedded badger database under keys
// game/<id>/<ply>, with the ply zero-padded so keys sort in ply order.
type BadgerStore struct {
	db *badger.DB

	// appendMu serializes ply assignment; two transactions creating the
	// same new key do not conflict in badger.
	appendMu sync.Mutex
}

// OpenBadger opens (or creates) the database in dir. An empty dir runs
// badger in memory.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger at %q", dir)
	}
	return &BadgerStore{db: db}, nil
}

func gamePrefix(gameID string) []byte {
	return []byte("game/" + gameID + "/")
}

func moveKey(gameID string, ply int) []byte {
	return []byte(fmt.Sprintf("game/%s/%08d", gameID, ply))
}

// Append implements HistoryRepository.
func (s *BadgerStore) Append(ctx context.Context, gameID string, rec MoveRecord) (MoveRecord, error) {
	if err := ValidateGameID(gameID); err != nil {
		return MoveRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return MoveRecord{}, err
	}

	s.appendMu.Lock()
	defer s.appendMu.Unlock()
	err := s.db.Update(func(txn *badger.Txn) error {
		ply := countKeys(txn, gamePrefix(gameID)) + 1
		rec = prepare(gameID, ply, rec)

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(moveKey(gameID, ply), data)
	})
	if err != nil {
		return MoveRecord{}, errors.Wrapf(err, "appending to game %q", gameID)
	}
	return rec, nil
}

// countKeys counts the keys under prefix without reading values.
func countKeys(txn *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	n := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		n++
	}
	return n
}

// List implements HistoryRepository.
func (s *BadgerStore) List(ctx context.Context, gameID string) ([]MoveRecord, error) {
	if err := ValidateGameID(gameID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []MoveRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := gamePrefix(gameID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec MoveRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing game %q", gameID)
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(errors.ErrGameNotFound, "%q", gameID)
	}
	return records, nil
}

// Pairs implements HistoryRepository.
func (s *BadgerStore) Pairs(ctx context.Context, gameID string) ([]MovePair, error) {
	return pairsOf(ctx, s, gameID)
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
