package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

const (
	GameStateKey = "yummy-colors-game-state"
	SessionsKey  = "yummy-colors-sessions"
)

// Persistence mirrors the in-progress game and caches completed sessions
// that could not be delivered.
type Persistence struct {
	kv  KV
	log *zap.Logger

	// guards the read-modify-write of the sessions list
	mu sync.Mutex
}

func New(kv KV, log *zap.Logger) *Persistence {
	return &Persistence{kv: kv, log: log}
}

func (p *Persistence) Save(s engine.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode game state: %w", err)
	}
	if err := p.kv.Set(GameStateKey, string(data)); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// Load returns the saved game if one can be resumed. Unreadable data is
// logged and cleared; a finished game is never resumed.
func (p *Persistence) Load() (engine.State, bool) {
	raw, ok, err := p.kv.Get(GameStateKey)
	if err != nil {
		p.log.Warn("failed to read saved game", zap.Error(err))
		return engine.State{}, false
	}
	if !ok {
		return engine.State{}, false
	}

	var s engine.State
	err = json.Unmarshal([]byte(raw), &s)
	if err == nil {
		err = s.Validate()
	}
	if err != nil {
		p.log.Warn("discarding malformed saved game", zap.Error(err))
		if err := p.Clear(); err != nil {
			p.log.Warn("failed to clear malformed saved game", zap.Error(err))
		}
		return engine.State{}, false
	}

	if s.GamePhase == engine.PhaseComplete {
		p.log.Debug("saved game already complete, starting fresh")
		return engine.State{}, false
	}
	return s, true
}

func (p *Persistence) Clear() error {
	if err := p.kv.Delete(GameStateKey); err != nil {
		return fmt.Errorf("failed to clear game state: %w", err)
	}
	return nil
}

func (p *Persistence) AppendSession(gs types.GameSession) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sessions, err := p.sessions()
	if err != nil {
		p.log.Warn("resetting unreadable session cache", zap.Error(err))
		sessions = nil
	}
	sessions = append(sessions, gs)

	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	if err := p.kv.Set(SessionsKey, string(data)); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	return nil
}

// Sessions lists locally cached sessions, oldest first.
func (p *Persistence) Sessions() ([]types.GameSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions()
}

func (p *Persistence) sessions() ([]types.GameSession, error) {
	raw, ok, err := p.kv.Get(SessionsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	if !ok {
		return []types.GameSession{}, nil
	}
	var out []types.GameSession
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return out, nil
}
