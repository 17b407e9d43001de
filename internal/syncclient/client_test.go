package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/testutil"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

type memCache struct {
	mu       sync.Mutex
	sessions []types.GameSession
}

func (m *memCache) AppendSession(gs types.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, gs)
	return nil
}

func (m *memCache) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type locatorFunc func(ctx context.Context) (*types.Location, error)

func (f locatorFunc) Locate(ctx context.Context) (*types.Location, error) { return f(ctx) }

func collector(t *testing.T, status int) (*httptest.Server, func() []types.GameSession) {
	t.Helper()
	var mu sync.Mutex
	received := []types.GameSession{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var gs types.GameSession
		if err := json.NewDecoder(r.Body).Decode(&gs); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, gs)
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []types.GameSession {
		mu.Lock()
		defer mu.Unlock()
		return append([]types.GameSession(nil), received...)
	}
}

func TestSaveCompletedGame_Delivers(t *testing.T) {
	srv, received := collector(t, http.StatusOK)
	cache := &memCache{}
	lat, lng := 51.50735, -0.12776
	c := New(Options{
		Transmitter: NewHTTPTransmitter(srv.URL, time.Second),
		Cache:       cache,
		Locator: locatorFunc(func(context.Context) (*types.Location, error) {
			return &types.Location{City: "London", Country: "United Kingdom", Latitude: &lat, Longitude: &lng}, nil
		}),
		Logger: zaptest.NewLogger(t),
	})

	device := types.Device{UserAgent: "agent/1", ScreenSize: types.ScreenSize{Width: 390, Height: 844}}
	gs, ok := c.SaveCompletedGame(context.Background(), testutil.CompletedState(t, 5), device)
	require.True(t, ok)
	require.NotEmpty(t, gs.ID)
	require.NotNil(t, gs.CompletedAt)

	require.Len(t, received(), 1)
	got := received()[0]
	assert.Equal(t, gs.ID, got.ID)
	assert.Equal(t, "agent/1", got.UserAgent)
	assert.Equal(t, 390, got.ScreenSize.Width)
	require.NotNil(t, got.Location)
	assert.Equal(t, 51.51, *got.Location.Latitude)
	assert.Equal(t, -0.13, *got.Location.Longitude)
	assert.Equal(t, engine.PhaseComplete, got.GameState.GamePhase)
	assert.Zero(t, cache.len())
}

func TestSaveCompletedGame_IgnoresUnfinishedGames(t *testing.T) {
	srv, received := collector(t, http.StatusOK)
	c := New(Options{Transmitter: NewHTTPTransmitter(srv.URL, time.Second), Logger: zaptest.NewLogger(t)})

	_, ok := c.SaveCompletedGame(context.Background(), testutil.PlayRounds(t, testutil.NewState(t, 5)), types.Device{})
	assert.False(t, ok)
	assert.Empty(t, received())
}

func TestSaveCompletedGame_FailuresAreCachedNotReturned(t *testing.T) {
	srv, _ := collector(t, http.StatusInternalServerError)
	cache := &memCache{}
	c := New(Options{Transmitter: NewHTTPTransmitter(srv.URL, time.Second), Cache: cache, Logger: zaptest.NewLogger(t)})

	_, ok := c.SaveCompletedGame(context.Background(), testutil.CompletedState(t, 5), types.Device{})
	assert.True(t, ok)
	assert.Equal(t, 1, cache.len())

	// Unreachable collector behaves the same.
	down := New(Options{Transmitter: NewHTTPTransmitter("http://127.0.0.1:1/api/game-results", 200*time.Millisecond), Cache: cache, Logger: zaptest.NewLogger(t)})
	_, ok = down.SaveCompletedGame(context.Background(), testutil.CompletedState(t, 6), types.Device{})
	assert.True(t, ok)
	assert.Equal(t, 2, cache.len())
}

func TestSaveCompletedGame_LocationIsBestEffort(t *testing.T) {
	srv, received := collector(t, http.StatusOK)
	cases := []struct {
		name    string
		locator LocationProvider
	}{
		{name: "error", locator: locatorFunc(func(context.Context) (*types.Location, error) {
			return nil, errors.New("permission denied")
		})},
		{name: "slow", locator: locatorFunc(func(ctx context.Context) (*types.Location, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(Options{
				Transmitter:   NewHTTPTransmitter(srv.URL, time.Second),
				Locator:       tc.locator,
				LocateTimeout: 50 * time.Millisecond,
				Logger:        zaptest.NewLogger(t),
			})
			gs, ok := c.SaveCompletedGame(context.Background(), testutil.CompletedState(t, 9), types.Device{})
			require.True(t, ok)
			assert.Nil(t, gs.Location)
		})
	}
	assert.Len(t, received(), 2)
}

func TestTimezoneLocator(t *testing.T) {
	loc, err := TimezoneLocator{Zone: time.UTC}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.Timezone)
	assert.Nil(t, loc.Latitude)
}
