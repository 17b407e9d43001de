package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

type sessionRecord struct {
	ID          string    `gorm:"primaryKey"`
	CompletedAt time.Time `gorm:"index;not null"`
	Country     string
	Payload     string `gorm:"type:jsonb;not null"`
	UpdatedAt   time.Time
}

func (sessionRecord) TableName() string { return "game_sessions" }

// Postgres is the production repository.
type Postgres struct {
	db  *gorm.DB
	log *zap.Logger
}

func OpenPostgres(dsn string, log *zap.Logger) (*Postgres, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	sqlDB := stdlib.OpenDB(*cfg)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("postgres collector ready", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return &Postgres{db: db, log: log}, nil
}

func (p *Postgres) Save(ctx context.Context, gs types.GameSession) error {
	if err := Validate(gs); err != nil {
		return err
	}
	payload, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", gs.ID, err)
	}
	rec := sessionRecord{
		ID:          gs.ID,
		CompletedAt: completedAt(gs),
		Country:     country(gs),
		Payload:     string(payload),
	}
	err = p.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save session %s: %w", gs.ID, err)
	}
	return nil
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]types.GameSession, error) {
	q := p.db.WithContext(ctx).Order("completed_at DESC").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []sessionRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]types.GameSession, 0, len(recs))
	for _, rec := range recs {
		var gs types.GameSession
		if err := json.Unmarshal([]byte(rec.Payload), &gs); err != nil {
			p.log.Warn("skipping unreadable session", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		out = append(out, gs)
	}
	return out, nil
}

func (p *Postgres) All(ctx context.Context) ([]types.GameSession, error) {
	return p.Recent(ctx, 0)
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
