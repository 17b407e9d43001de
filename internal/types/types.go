package types

import (
	"time"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
)

type ClientMessage struct {
	Type        string   `json:"type"`
	Color       string   `json:"color,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	TimeSpentMs int64       `json:"time_spent_ms,omitempty"`
	Screen      *ScreenSize `json:"screen,omitempty"` // sent with "Hello"
}

type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Error"
	Version int           `json:"version,omitempty"`
	State   *engine.State `json:"state,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type ScreenSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Device is the browser a game is played on, recorded with the finished
// session.
type Device struct {
	UserAgent  string
	ScreenSize ScreenSize
}

// Location is coarse: coordinates are rounded to two decimals.
type Location struct {
	City        string   `json:"city,omitempty"`
	Region      string   `json:"region,omitempty"`
	Country     string   `json:"country,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// GameSession is the terminal snapshot sent to the collector.
type GameSession struct {
	ID          string        `json:"id"`
	GameState   *engine.State `json:"gameState"`
	UserAgent   string        `json:"userAgent"`
	ScreenSize  ScreenSize    `json:"screenSize"`
	Location    *Location     `json:"location,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

func (g GameSession) Completed() bool {
	return g.GameState != nil && g.GameState.GamePhase == engine.PhaseComplete
}

// Finished returns when the session ended, falling back to the last round.
func (g GameSession) Finished() time.Time {
	if g.CompletedAt != nil {
		return *g.CompletedAt
	}
	if g.GameState != nil {
		if n := len(g.GameState.RoundHistory); n > 0 {
			return g.GameState.RoundHistory[n-1].Timestamp
		}
		return g.GameState.StartTime
	}
	return time.Time{}
}
