package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/palette"
	"github.com/DoyleJ11/yummy-colors-backend/internal/store"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

type Msg interface{ isSessionMsg() }

type FromClient struct {
	ClientID string // errors go back to this client only
	Cmd      engine.Command
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
	Device   types.Device
}

func (Join) isSessionMsg() {}

// Hello reports the client's screen once the page has laid out.
type Hello struct {
	ClientID string
	Screen   types.ScreenSize
}

func (Hello) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// Reset throws the current game away and deals a new one.
type Reset struct{}

func (Reset) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// Snapshot is what clients see. Err is set when the receiving client's
// command was rejected, or when the finale cannot be played as a bracket.
type Snapshot struct {
	Version int
	State   engine.State
	Err     error
}

type View struct {
	Version    int
	NumClients int
	Synced     bool
	State      engine.State
}

// Syncer hands a finished game to the collector.
type Syncer interface {
	SaveCompletedGame(ctx context.Context, s engine.State, device types.Device) (types.GameSession, bool)
}

type Deps struct {
	Rules       engine.Rules
	Generator   *palette.Generator
	Store       *store.Persistence // optional
	Sync        Syncer             // optional
	Logger      *zap.Logger
	Clock       func() time.Time
	SyncTimeout time.Duration

	// IdleTimeout ends a session that has had no client attached for this
	// long. A finished game ends as soon as its last client leaves.
	IdleTimeout time.Duration
}

// Session owns one game. All state changes happen on its loop goroutine.
type Session struct {
	inbox   chan Msg
	state   engine.State
	version int
	synced  bool
	clients map[string]chan Snapshot
	devices map[string]types.Device
	deps    Deps
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	idle      *time.Timer
	idleArmed bool
}

func NewSession(parent context.Context, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parent)
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.SyncTimeout <= 0 {
		deps.SyncTimeout = 10 * time.Second
	}
	if deps.IdleTimeout <= 0 {
		deps.IdleTimeout = 30 * time.Minute
	}

	s := &Session{
		inbox:   make(chan Msg, 64), // Small buffer
		clients: make(map[string]chan Snapshot),
		devices: make(map[string]types.Device),
		deps:    deps,
		log:     deps.Logger.Named("session"),
		ctx:     ctx,
		cancel:  cancel,

		idle:      time.NewTimer(deps.IdleTimeout),
		idleArmed: true,
	}

	if saved, ok := s.load(); ok {
		s.state = saved
		s.log.Info("resumed saved game", zap.Int("round", saved.CurrentRound), zap.String("phase", string(saved.GamePhase)))
	} else {
		s.state = s.fresh()
	}

	go s.loop()
	return s
}

func (s *Session) load() (engine.State, bool) {
	if s.deps.Store == nil {
		return engine.State{}, false
	}
	return s.deps.Store.Load()
}

// fresh deals a new game. It is not persisted until the first move.
func (s *Session) fresh() engine.State {
	r := s.deps.Rules
	return engine.NewState(r, s.deps.Generator.AllRounds(r.TotalRounds, r.ColorsPerRound), s.deps.Clock().UTC())
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case <-s.idle.C:
			s.idleArmed = false
			if len(s.clients) == 0 {
				s.log.Info("releasing idle session", zap.Duration("idle", s.deps.IdleTimeout))
				s.shutdown()
				return
			}

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				s.clients[msg.ClientID] = msg.Outbox
				s.devices[msg.ClientID] = msg.Device
				msg.Outbox <- s.snapshot()

			case Hello:
				if d, ok := s.devices[msg.ClientID]; ok {
					d.ScreenSize = msg.Screen
					s.devices[msg.ClientID] = d
				}

			case Leave:
				s.drop(msg.ClientID, false)
				if len(s.clients) == 0 && s.state.GamePhase == engine.PhaseComplete {
					s.log.Debug("last client left a finished game")
					s.shutdown()
					return
				}

			case FromClient:
				cmd := msg.Cmd
				if cmd.At.IsZero() {
					cmd.At = s.deps.Clock().UTC()
				}
				events, next, err := engine.Apply(s.state, cmd)
				if err != nil {
					s.log.Debug("command rejected", zap.String("client", msg.ClientID), zap.String("command", string(cmd.Type)), zap.Error(err))
					s.sendTo(msg.ClientID, Snapshot{Version: s.version, State: s.state, Err: err})
					break
				}
				s.state = next
				s.version++
				s.execute(engine.Intents(events), s.devices[msg.ClientID])
				s.broadcast(s.snapshot())

			case Reset:
				if s.deps.Store != nil {
					if err := s.deps.Store.Clear(); err != nil {
						s.log.Error("failed to clear saved game", zap.Error(err))
					}
				}
				s.state = s.fresh()
				s.synced = false
				s.version++
				s.broadcast(s.snapshot())

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					Synced:     s.synced,
					State:      s.state,
				}

			case Shutdown:
				s.shutdown()
				return
			}
			s.armIdle()
		}
	}
}

// armIdle runs the idle timer only while no client is attached.
func (s *Session) armIdle() {
	switch {
	case len(s.clients) == 0 && !s.idleArmed:
		s.idle.Reset(s.deps.IdleTimeout)
		s.idleArmed = true
	case len(s.clients) > 0 && s.idleArmed:
		s.idle.Stop()
		s.idleArmed = false
	}
}

func (s *Session) execute(intents []engine.Intent, device types.Device) {
	for _, intent := range intents {
		switch intent {
		case engine.IntentPersist:
			if s.deps.Store == nil {
				continue
			}
			if err := s.deps.Store.Save(s.state); err != nil {
				s.log.Error("failed to persist game", zap.Error(err))
			}
		case engine.IntentSync:
			s.syncOnce(device)
		}
	}
}

// syncOnce sends the finished game in the background. The request outlives
// a reset or shutdown of the session, bounded by SyncTimeout.
func (s *Session) syncOnce(device types.Device) {
	if s.synced || s.deps.Sync == nil {
		return
	}
	s.synced = true

	finished := s.state
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), s.deps.SyncTimeout)
	go func() {
		defer cancel()
		s.deps.Sync.SaveCompletedGame(ctx, finished, device)
	}()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{Version: s.version, State: s.state, Err: s.state.FinaleErr()}
}

func (s *Session) shutdown() {
	for id := range s.clients {
		s.drop(id, true) // Tell client no more snapshots
	}
	s.idle.Stop()
	s.cancel()
}

// drop forgets a client, closing its outbox when the session hangs up on
// it rather than the other way round.
func (s *Session) drop(clientID string, closeOutbox bool) {
	if ch, ok := s.clients[clientID]; ok && closeOutbox {
		close(ch)
	}
	delete(s.clients, clientID)
	delete(s.devices, clientID)
}

func (s *Session) sendTo(clientID string, snap Snapshot) {
	ch, ok := s.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- snap:
	default:
		s.drop(clientID, true)
	}
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			s.drop(id, true)
		}
	}
}

// Inbox exposes the session's mailbox to the transport and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the session has stopped. Messages sent after that
// are never read.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }
