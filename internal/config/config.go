// Package config reads server settings from flags, the environment and an
// optional .env file. Flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
	"github.com/DoyleJ11/yummy-colors-backend/internal/store"
)

type Config struct {
	Addr           string
	DatabaseDriver string
	DatabaseURL    string
	StateDir       string
	StoreBackend   string
	CollectorURL   string
	AdminKeyHash   string
	AllowedOrigins []string
	LogLevel       string
	Dev            bool
	SyncTimeout    time.Duration
	IdleTimeout    time.Duration

	Rules      engine.Rules
	DrawPolicy palette.Policy
}

// Load reads .env from the working directory when present, then parses args.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse(args)
}

// Parse builds a Config from args with defaults taken from the environment.
func Parse(args []string) (Config, error) {
	var (
		cfg        Config
		origins    string
		finaleMode string
		drawPolicy string
		env        envReader
	)
	rules := engine.DefaultRules()

	fs := flag.NewFlagSet("yummy-colors", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "addr", getEnv("ADDR", ":8080"), "listen address")
	fs.StringVar(&cfg.DatabaseDriver, "db-driver", getEnv("DATABASE_DRIVER", "memory"), "collector backend (postgres, sqlite or memory)")
	fs.StringVar(&cfg.DatabaseURL, "db", getEnv("DATABASE_URL", ""), "collector database URL or sqlite path")
	fs.StringVar(&cfg.StateDir, "state-dir", getEnv("STATE_DIR", "./data/sessions"), "directory for per-session game state")
	fs.StringVar(&cfg.StoreBackend, "store", getEnv("STORE_BACKEND", "file"), "game state backend (file or memory)")
	fs.StringVar(&cfg.CollectorURL, "collector-url", getEnv("COLLECTOR_URL", ""), "where completed games are sent; empty keeps them local")
	fs.StringVar(&cfg.AdminKeyHash, "admin-key-hash", getEnv("ADMIN_KEY_HASH", ""), "bcrypt hash guarding the read endpoints (prefer env)")
	fs.StringVar(&origins, "allowed-origins", getEnv("ALLOWED_ORIGINS", "*"), "comma separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "debug, info, warn or error")
	fs.BoolVar(&cfg.Dev, "dev", env.asBool("DEV", false), "development logging")
	fs.DurationVar(&cfg.SyncTimeout, "sync-timeout", env.asDuration("SYNC_TIMEOUT", 10*time.Second), "upper bound for one collector upload")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", env.asDuration("IDLE_TIMEOUT", 30*time.Minute), "release a session after this long without clients")

	fs.IntVar(&rules.TotalRounds, "rounds", env.asInt("TOTAL_ROUNDS", rules.TotalRounds), "rounds per game")
	fs.IntVar(&rules.ColorsPerRound, "colors-per-round", env.asInt("COLORS_PER_ROUND", rules.ColorsPerRound), "colors offered per round")
	fs.BoolVar(&rules.FavoritesPhase, "favorites", env.asBool("FAVORITES_PHASE", rules.FavoritesPhase), "ask for favorites before the finale")
	fs.StringVar(&finaleMode, "finale", getEnv("FINALE_MODE", string(rules.FinaleMode)), "bracket or ranking")
	fs.StringVar(&drawPolicy, "draw", getEnv("DRAW_POLICY", string(palette.PolicyUniform)), "uniform or balanced")

	if env.err != nil {
		return Config{}, env.err
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	mode, err := engine.ParseFinaleMode(finaleMode)
	if err != nil {
		return Config{}, err
	}
	rules.FinaleMode = mode
	if err := rules.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Rules = rules

	policy, err := palette.ParsePolicy(drawPolicy)
	if err != nil {
		return Config{}, err
	}
	cfg.DrawPolicy = policy
	cfg.AllowedOrigins = splitList(origins)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DatabaseDriver {
	case "memory":
	case "postgres", "sqlite":
		if c.DatabaseURL == "" {
			return fmt.Errorf("%s collector needs a database URL (use -db or DATABASE_URL)", c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}
	if _, ok := store.Backends[c.StoreBackend]; !ok {
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.SyncTimeout <= 0 {
		return errors.New("sync timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return errors.New("idle timeout must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// envReader reads typed defaults from the environment. A set but malformed
// variable is an error, collected in err, never a silent fallback.
type envReader struct {
	err error
}

func (e *envReader) asInt(key string, fallback int) int {
	return lookup(e, key, fallback, strconv.Atoi)
}

func (e *envReader) asBool(key string, fallback bool) bool {
	return lookup(e, key, fallback, strconv.ParseBool)
}

func (e *envReader) asDuration(key string, fallback time.Duration) time.Duration {
	return lookup(e, key, fallback, time.ParseDuration)
}

func lookup[T any](e *envReader, key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		e.err = multierr.Append(e.err, fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return fallback
	}
	return v
}
