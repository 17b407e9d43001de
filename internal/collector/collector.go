// Package collector stores completed game sessions for the analytics API.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrMissingID     = errors.New("session id is required")
	ErrMissingState  = errors.New("game state is required")
	ErrNotComplete   = errors.New("game is not complete")
	ErrFinalTop3     = errors.New("final ranking must hold exactly 3 colors")
)

// Repository persists sessions keyed by id. Save is an upsert.
type Repository interface {
	Save(ctx context.Context, gs types.GameSession) error
	// Recent returns sessions most recent first. limit <= 0 means no limit.
	Recent(ctx context.Context, limit int) ([]types.GameSession, error)
	All(ctx context.Context) ([]types.GameSession, error)
	Close() error
}

// Open picks a backend by driver name: "postgres", "sqlite" or "memory".
func Open(driver, dsn string, log *zap.Logger) (Repository, error) {
	log = log.Named("collector")
	switch driver {
	case "postgres":
		return OpenPostgres(dsn, log)
	case "sqlite", "sqlite3":
		return OpenSQLite(dsn, log)
	case "memory", "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Validate rejects sessions the collector must not store.
func Validate(gs types.GameSession) error {
	switch {
	case gs.ID == "":
		return ErrMissingID
	case gs.GameState == nil:
		return ErrMissingState
	case gs.GameState.GamePhase != engine.PhaseComplete:
		return ErrNotComplete
	case len(gs.GameState.FinalTop3) != engine.RankingSize:
		return ErrFinalTop3
	}
	return nil
}

func completedAt(gs types.GameSession) time.Time {
	return gs.Finished().UTC()
}
