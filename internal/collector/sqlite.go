package collector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

// SQLite stores each session as a JSON document next to the columns used
// for ordering.
type SQLite struct {
	db  *sql.DB
	log *zap.Logger
}

func OpenSQLite(path string, log *zap.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db, log: log}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("sqlite collector ready", zap.String("path", path))
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS game_sessions (
			id TEXT PRIMARY KEY,
			completed_at INTEGER NOT NULL,
			country TEXT,
			payload TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_sessions_completed ON game_sessions(completed_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Save(ctx context.Context, gs types.GameSession) error {
	if err := Validate(gs); err != nil {
		return err
	}
	payload, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", gs.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_sessions (id, completed_at, country, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			completed_at = excluded.completed_at,
			country = excluded.country,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, gs.ID, completedAt(gs).UnixNano(), country(gs), string(payload))
	if err != nil {
		return fmt.Errorf("save session %s: %w", gs.ID, err)
	}
	return nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]types.GameSession, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload FROM game_sessions
		ORDER BY completed_at DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []types.GameSession{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		var gs types.GameSession
		if err := json.Unmarshal([]byte(payload), &gs); err != nil {
			s.log.Warn("skipping unreadable session", zap.String("id", id), zap.Error(err))
			continue
		}
		out = append(out, gs)
	}
	return out, rows.Err()
}

func (s *SQLite) All(ctx context.Context) ([]types.GameSession, error) {
	return s.Recent(ctx, 0)
}

func country(gs types.GameSession) string {
	if gs.Location == nil {
		return ""
	}
	return gs.Location.Country
}
