package testutil

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

// Start is the fixed start time of every generated game.
var Start = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// Generator returns a seeded generator so games are reproducible.
func Generator(seed int64) *palette.Generator {
	return palette.NewGenerator(palette.PolicyUniform, rand.New(rand.NewSource(seed)))
}

// NewState returns a fresh game with the default rules.
func NewState(t *testing.T, seed int64) engine.State {
	t.Helper()
	rules := engine.DefaultRules()
	return engine.NewState(rules, Generator(seed).AllRounds(rules.TotalRounds, rules.ColorsPerRound), Start)
}

// Apply fails the test if the command is rejected.
func Apply(t *testing.T, s engine.State, cmd engine.Command) engine.State {
	t.Helper()
	_, next, err := engine.Apply(s, cmd)
	if err != nil {
		t.Fatalf("apply %s: %v", cmd.Type, err)
	}
	return next
}

// PlayRounds picks the first offered color in every remaining round.
func PlayRounds(t *testing.T, s engine.State) engine.State {
	t.Helper()
	for s.GamePhase == engine.PhaseSelection {
		pick := s.CurrentColors()[0]
		s = Apply(t, s, engine.Command{
			Type:      engine.CmdSelectColor,
			Color:     pick.ID,
			TimeSpent: 2 * time.Second,
			At:        Start.Add(time.Duration(s.CurrentRound) * time.Minute),
		})
		s = Apply(t, s, engine.Command{Type: engine.CmdNextRound})
	}
	return s
}

// FinishBracket takes the first color of every remaining match.
func FinishBracket(t *testing.T, s engine.State) engine.State {
	t.Helper()
	for s.GamePhase == engine.PhaseFinale {
		if s.Bracket == nil {
			t.Fatalf("finale has no bracket: %v", s.FinaleErr())
		}
		x, _, _ := s.Bracket.Match()
		s = Apply(t, s, engine.Command{Type: engine.CmdBracketPick, Color: x.ID})
	}
	return s
}

// CompletedState plays a whole game with default rules.
func CompletedState(t *testing.T, seed int64) engine.State {
	t.Helper()
	return FinishBracket(t, PlayRounds(t, NewState(t, seed)))
}

// CompletedSession wraps a completed game the way the sync client does.
func CompletedSession(t *testing.T, id string, seed int64, at time.Time) types.GameSession {
	t.Helper()
	s := CompletedState(t, seed)
	return types.GameSession{
		ID:          id,
		GameState:   &s,
		UserAgent:   "Mozilla/5.0 (test)",
		ScreenSize:  types.ScreenSize{Width: 1280, Height: 800},
		CompletedAt: &at,
	}
}

// MakeRequest creates an HTTP test request with an optional JSON body.
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("expected status %d, got %d. body: %s", expected, w.Code, w.Body.String())
	}
}

// DecodeJSON decodes the response body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
}
