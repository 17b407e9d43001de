package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

// Transmitter delivers a finished session to the collector.
type Transmitter interface {
	Transmit(ctx context.Context, gs types.GameSession) error
}

// LocationProvider is optional; failures only mean the session carries no
// location.
type LocationProvider interface {
	Locate(ctx context.Context) (*types.Location, error)
}

// SessionCache keeps sessions that could not be delivered.
type SessionCache interface {
	AppendSession(gs types.GameSession) error
}

type Options struct {
	Transmitter   Transmitter
	Cache         SessionCache
	Locator       LocationProvider
	LocateTimeout time.Duration
	Logger        *zap.Logger
}

type Client struct {
	tx            Transmitter
	cache         SessionCache
	locator       LocationProvider
	locateTimeout time.Duration
	log           *zap.Logger

	newID func() string
	now   func() time.Time
}

func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.LocateTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		tx:            opts.Transmitter,
		cache:         opts.Cache,
		locator:       opts.Locator,
		locateTimeout: timeout,
		log:           log,
		newID:         uuid.NewString,
		now:           time.Now,
	}
}

// SaveCompletedGame builds a session from a finished game played on device
// and sends it. Delivery failures are logged and the session is cached
// locally; they are never returned. ok is false when the game is not
// complete.
func (c *Client) SaveCompletedGame(ctx context.Context, s engine.State, device types.Device) (types.GameSession, bool) {
	if s.GamePhase != engine.PhaseComplete {
		return types.GameSession{}, false
	}

	completedAt := c.now().UTC()
	gs := types.GameSession{
		ID:          c.newID(),
		GameState:   &s,
		UserAgent:   device.UserAgent,
		ScreenSize:  device.ScreenSize,
		Location:    c.locate(ctx),
		CompletedAt: &completedAt,
	}
	log := c.log.With(zap.String("session_id", gs.ID))

	if c.tx == nil {
		log.Debug("no collector configured, caching session")
		c.cacheSession(log, gs)
		return gs, true
	}
	if err := c.tx.Transmit(ctx, gs); err != nil {
		log.Error("failed to sync completed game", zap.Error(err))
		c.cacheSession(log, gs)
		return gs, true
	}
	log.Info("synced completed game")
	return gs, true
}

func (c *Client) locate(ctx context.Context) *types.Location {
	if c.locator == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.locateTimeout)
	defer cancel()

	loc, err := c.locator.Locate(ctx)
	if err != nil {
		c.log.Debug("location unavailable", zap.Error(err))
		return nil
	}
	if loc != nil {
		loc.Latitude = roundCoord(loc.Latitude)
		loc.Longitude = roundCoord(loc.Longitude)
	}
	return loc
}

func (c *Client) cacheSession(log *zap.Logger, gs types.GameSession) {
	if c.cache == nil {
		return
	}
	if err := c.cache.AppendSession(gs); err != nil {
		log.Warn("failed to cache session locally", zap.Error(err))
	}
}

func roundCoord(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

// HTTPTransmitter posts sessions as JSON to the collector endpoint.
type HTTPTransmitter struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPTransmitter(endpoint string, timeout time.Duration) *HTTPTransmitter {
	return &HTTPTransmitter{Endpoint: endpoint, Client: &http.Client{Timeout: timeout}}
}

func (t *HTTPTransmitter) Transmit(ctx context.Context, gs types.GameSession) error {
	body, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach collector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("collector responded %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}

// TimezoneLocator reports only the host timezone.
type TimezoneLocator struct {
	Zone *time.Location
}

func (l TimezoneLocator) Locate(context.Context) (*types.Location, error) {
	zone := l.Zone
	if zone == nil {
		zone = time.Local
	}
	return &types.Location{Timezone: zone.String()}, nil
}
