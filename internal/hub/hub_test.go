package hub

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/session"
	"github.com/DoyleJ11/yummy-colors-backend/internal/testutil"
)

func testFactory(created *[]string) Factory {
	return idleFactory(created, 0)
}

func idleFactory(created *[]string, idle time.Duration) Factory {
	return func(ctx context.Context, code string) (*session.Session, error) {
		if code == "BROKEN" {
			return nil, errors.New("no store for this code")
		}
		*created = append(*created, code)
		return session.NewSession(ctx, session.Deps{
			Rules:       engine.DefaultRules(),
			Generator:   testutil.Generator(1),
			IdleTimeout: idle,
		}), nil
	}
}

func ask(t *testing.T, h *Hub, msg func(reply chan *session.Session) HubMsg) *session.Session {
	t.Helper()
	reply := make(chan *session.Session, 1)
	h.Inbox() <- msg(reply)
	select {
	case s := <-reply:
		return s
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("hub did not reply")
		return nil
	}
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var created []string
	h := NewHub(ctx, testFactory(&created), zap.NewNop())

	s1 := ask(t, h, func(r chan *session.Session) HubMsg { return CreateSession{Code: "ZED123", Reply: r} })
	s2 := ask(t, h, func(r chan *session.Session) HubMsg { return GetSession{Code: "ZED123", Reply: r} })

	if s1 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
	if len(created) != 1 {
		t.Fatalf("factory should run once per code, ran %d times", len(created))
	}
}

func TestHub_CreateRefusesTakenCode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var created []string
	h := NewHub(ctx, testFactory(&created), zap.NewNop())

	first := ask(t, h, func(r chan *session.Session) HubMsg { return CreateSession{Code: "DUP000", Reply: r} })
	if first == nil {
		t.Fatalf("first create failed")
	}
	if again := ask(t, h, func(r chan *session.Session) HubMsg { return CreateSession{Code: "DUP000", Reply: r} }); again != nil {
		t.Fatalf("second create of a taken code should reply nil")
	}
	if got := ask(t, h, func(r chan *session.Session) HubMsg { return GetSession{Code: "DUP000", Reply: r} }); got != first {
		t.Fatalf("taken code should still point at the first session")
	}
	if len(created) != 1 {
		t.Fatalf("factory ran %d times for one code", len(created))
	}
}

func TestHub_UnregistersIdleSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var created []string
	h := NewHub(ctx, idleFactory(&created, 30*time.Millisecond), zap.NewNop())

	s := ask(t, h, func(r chan *session.Session) HubMsg { return CreateSession{Code: "IDLE00", Reply: r} })
	if s == nil {
		t.Fatalf("create failed")
	}

	deadline := time.Now().Add(time.Second)
	for ask(t, h, func(r chan *session.Session) HubMsg { return GetSession{Code: "IDLE00", Reply: r} }) != nil {
		if time.Now().After(deadline) {
			t.Fatalf("idle session is still registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The code is free again.
	if again := ask(t, h, func(r chan *session.Session) HubMsg { return CreateSession{Code: "IDLE00", Reply: r} }); again == nil || again == s {
		t.Fatalf("expected a fresh session under the released code")
	}
}

func TestHub_GetUnknownAndFactoryFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var created []string
	h := NewHub(ctx, testFactory(&created), zap.NewNop())

	if s := ask(t, h, func(r chan *session.Session) HubMsg { return GetSession{Code: "NOPE00", Reply: r} }); s != nil {
		t.Fatalf("expected nil for unknown code")
	}
	if s := ask(t, h, func(r chan *session.Session) HubMsg { return CreateSession{Code: "BROKEN", Reply: r} }); s != nil {
		t.Fatalf("expected nil when the factory fails")
	}
}

func TestHub_RemoveSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var created []string
	h := NewHub(ctx, testFactory(&created), zap.NewNop())

	s := ask(t, h, func(r chan *session.Session) HubMsg { return CreateSession{Code: "ABC123", Reply: r} })
	out := make(chan session.Snapshot, 1)
	s.Inbox() <- session.Join{ClientID: "c1", Outbox: out}
	<-out

	h.Inbox() <- RemoveSession{Code: "ABC123"}
	if got := ask(t, h, func(r chan *session.Session) HubMsg { return GetSession{Code: "ABC123", Reply: r} }); got != nil {
		t.Fatalf("removed session still registered")
	}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected removed session to close client outboxes")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("removed session was not shut down")
	}
}
