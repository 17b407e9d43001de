package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/hub"
	"github.com/DoyleJ11/yummy-colors-backend/internal/session"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	idleTimeout  = 10 * time.Minute
)

var (
	errUnknownType   = errors.New("unknown message type")
	errMissingScreen = errors.New("hello without a screen size")
)

// Handler upgrades GET /ws?code=... and attaches the connection to the
// session registered under code. originPatterns is passed to Accept.
func Handler(h *hub.Hub, log *zap.Logger, originPatterns []string) http.HandlerFunc {
	log = log.Named("ws")
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			log.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := uuid.NewString()
		clog := log.With(zap.String("code", code), zap.String("client", clientID))

		device := types.Device{UserAgent: r.UserAgent()}
		if !post(sess, session.Join{ClientID: clientID, Outbox: out, Device: device}) {
			return
		}
		defer post(sess, session.Leave{ClientID: clientID})
		clog.Debug("client joined")

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case snap, ok := <-out:
					if !ok {
						// Session closed our outbox: shut down or we were dropped.
						_ = conn.Close(websocket.StatusGoingAway, "session closed")
						return
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					err := wsjson.Write(ctx, conn, toServerMessage(snap))
					cancel()
					if err != nil {
						clog.Debug("write failed", zap.Error(err))
						return
					}
				case <-sess.Done():
					_ = conn.Close(websocket.StatusGoingAway, "session closed")
					return
				case <-writeCtx.Done():
					return
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), idleTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Debug("client left")
				default:
					clog.Debug("read ended", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			msg, err := toSessionMsg(clientID, cm)
			if err != nil {
				writeError(r.Context(), conn, err.Error())
				continue
			}
			if !post(sess, msg) {
				return
			}
		}
	}
}

// post delivers msg unless the session has already stopped.
func post(sess *session.Session, msg session.Msg) bool {
	select {
	case <-sess.Done():
		return false
	default:
	}
	select {
	case sess.Inbox() <- msg:
		return true
	case <-sess.Done():
		return false
	}
}

// toServerMessage reports a blocked finale alongside the state; any other
// error means the client's own command was rejected.
func toServerMessage(snap session.Snapshot) types.ServerMessage {
	msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
	if snap.Err != nil {
		msg.Error = snap.Err.Error()
		if !errors.Is(snap.Err, engine.ErrBracketSize) {
			msg.Type = "Error"
		}
	}
	return msg
}

func toSessionMsg(clientID string, m types.ClientMessage) (session.Msg, error) {
	switch m.Type {
	case "ResetGame":
		return session.Reset{}, nil
	case "Hello":
		if m.Screen == nil {
			return nil, errMissingScreen
		}
		return session.Hello{ClientID: clientID, Screen: *m.Screen}, nil
	}
	cmd, err := toEngineCommand(m)
	if err != nil {
		return nil, err
	}
	return session.FromClient{ClientID: clientID, Cmd: cmd}, nil
}

func toEngineCommand(m types.ClientMessage) (engine.Command, error) {
	switch m.Type {
	case "SelectColor":
		return engine.Command{
			Type:      engine.CmdSelectColor,
			Color:     m.Color,
			TimeSpent: time.Duration(m.TimeSpentMs) * time.Millisecond,
		}, nil
	case "NextRound":
		return engine.Command{Type: engine.CmdNextRound}, nil
	case "PreviousRound":
		return engine.Command{Type: engine.CmdPreviousRound}, nil
	case "SelectFavorites":
		return engine.Command{Type: engine.CmdSelectFavorites, Colors: m.Colors}, nil
	case "BracketPick":
		return engine.Command{Type: engine.CmdBracketPick, Color: m.Color}, nil
	case "SetFinalRanking":
		return engine.Command{Type: engine.CmdSetFinalRanking, Colors: m.Colors}, nil
	default:
		return engine.Command{}, errUnknownType
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = wsjson.Write(ctx, conn, types.ServerMessage{Type: "Error", Error: msg})
}
