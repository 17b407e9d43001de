package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/collector"
	"github.com/DoyleJ11/yummy-colors-backend/internal/hub"
	"github.com/DoyleJ11/yummy-colors-backend/internal/ws"
)

type Deps struct {
	Hub  *hub.Hub
	Repo collector.Repository
	Log  *zap.Logger
	// AdminKeyHash is a bcrypt hash. Empty leaves the read endpoints open.
	AdminKeyHash   string
	AllowedOrigins []string
	Now            func() time.Time
}

func SetupRoutes(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	log := d.Log.Named("http")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", adminKeyHeader},
		MaxAge:         300,
	}))

	// Public routes
	r.Post("/sessions", CreateSession(d.Hub, log))
	r.Get("/healthz", Healthz(d.Repo))
	r.Get("/ws", ws.Handler(d.Hub, d.Log, wsOrigins(d.AllowedOrigins)))

	r.Route("/api", func(r chi.Router) {
		r.Post("/game-results", SaveGameResult(d.Repo, d.Now, log))

		r.Group(func(r chi.Router) {
			r.Use(requireAdminKey(d.AdminKeyHash))
			r.Get("/game-results", GetGameResults(d.Repo, d.Now, log))
			r.Get("/analytics", GetAnalytics(d.Repo, d.Now, log))
		})
	})
	return r
}

// wsOrigins turns CORS origins into host patterns for the websocket
// origin check. A wildcard allows any origin.
func wsOrigins(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
		}
	}
	return out
}
