package store

import (
	"context"

	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/errors"
)

// Open returns the repository selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config) (HistoryRepository, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(), nil
	case config.BackendBadger:
		s, err := OpenBadger(cfg.Store.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMongo:
		s, err := OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown store backend %q", cfg.Store.Backend)
}
