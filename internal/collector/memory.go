package collector

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

// Memory keeps sessions in process. Used for development and tests.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]types.GameSession
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]types.GameSession)}
}

func (m *Memory) Save(_ context.Context, gs types.GameSession) error {
	if err := Validate(gs); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[gs.ID] = gs
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]types.GameSession, error) {
	m.mu.RLock()
	out := make([]types.GameSession, 0, len(m.sessions))
	for _, gs := range m.sessions {
		out = append(out, gs)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b types.GameSession) int {
		return cmp.Or(completedAt(b).Compare(completedAt(a)), strings.Compare(a.ID, b.ID))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) All(ctx context.Context) ([]types.GameSession, error) {
	return m.Recent(ctx, 0)
}

func (m *Memory) Close() error { return nil }

