package store

import (
	"context"
	"sync"

	"github.com/lgbarn/movehint-go/internal/errors"
)

// MemoryStore keeps history in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string][]MoveRecord
}

// NewMemoryStore returns an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string][]MoveRecord)}
}

// Append implements HistoryRepository.
func (s *MemoryStore) Append(ctx context.Context, gameID string, rec MoveRecord) (MoveRecord, error) {
	if err := ValidateGameID(gameID); err != nil {
		return MoveRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return MoveRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec = prepare(gameID, len(s.games[gameID])+1, rec)
	s.games[gameID] = append(s.games[gameID], rec)
	return rec, nil
}

// List implements HistoryRepository.
func (s *MemoryStore) List(ctx context.Context, gameID string) ([]MoveRecord, error) {
	if err := ValidateGameID(gameID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.games[gameID]
	if len(records) == 0 {
		return nil, errors.Wrapf(errors.ErrGameNotFound, "%q", gameID)
	}
	return append([]MoveRecord(nil), records...), nil
}

// Pairs implements HistoryRepository.
func (s *MemoryStore) Pairs(ctx context.Context, gameID string) ([]MovePair, error) {
	return pairsOf(ctx, s, gameID)
}

// Close implements HistoryRepository.
func (s *MemoryStore) Close() error {
	return nil
}
