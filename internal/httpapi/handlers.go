package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/yummy-colors-backend/internal/analytics"
	"github.com/DoyleJ11/yummy-colors-backend/internal/collector"
	"github.com/DoyleJ11/yummy-colors-backend/internal/hub"
	"github.com/DoyleJ11/yummy-colors-backend/internal/session"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
	apitypes "github.com/DoyleJ11/yummy-colors-backend/pkg/types"
)

const (
	defaultResultsLimit = 100
	maxBodyBytes        = 1 << 20
	codeAttempts        = 10
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateSession(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for attempt := 0; attempt < codeAttempts; attempt++ {
			c, err := GenerateCode()
			if err != nil {
				respondError(w, http.StatusInternalServerError, "failed to generate code")
				return
			}
			// The hub refuses a taken code, so lookup and registration are one step.
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.CreateSession{Code: c, Reply: reply}
			if <-reply != nil {
				code = c
				break
			}
			log.Debug("could not register code, regenerating", zap.String("code", c))
		}
		if code == "" {
			respondError(w, http.StatusServiceUnavailable, "failed to create session")
			return
		}

		respondJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

// SaveGameResult accepts a completed session from a sync client.
func SaveGameResult(repo collector.Repository, now func() time.Time, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var gs types.GameSession
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&gs); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := collector.Validate(gs); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid game session data: "+err.Error())
			return
		}
		if gs.CompletedAt == nil {
			at := now().UTC()
			gs.CompletedAt = &at
		}

		if err := repo.Save(r.Context(), gs); err != nil {
			log.Error("failed to save game result", zap.String("session", gs.ID), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to save game result")
			return
		}
		log.Info("game result saved", zap.String("session", gs.ID))

		respondJSON(w, http.StatusOK, apitypes.SaveResponse{
			Success:   true,
			Message:   "Game result saved successfully",
			SessionID: gs.ID,
		})
	}
}

// GetGameResults lists recent sessions, optionally with location analytics.
func GetGameResults(repo collector.Repository, now func() time.Time, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultResultsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				respondError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		withLocations, _ := strconv.ParseBool(r.URL.Query().Get("locationAnalytics"))

		sessions, err := repo.All(r.Context())
		if err != nil {
			log.Error("failed to load game results", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to fetch game results")
			return
		}

		results := analytics.Summaries(sessions, limit, now())
		resp := apitypes.ResultsResponse{
			Success: true,
			Results: results,
			Total:   len(results),
		}
		if withLocations {
			loc := analytics.Locations(sessions)
			resp.LocationAnalytics = &loc
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func GetAnalytics(repo collector.Repository, now func() time.Time, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := repo.All(r.Context())
		if err != nil {
			log.Error("failed to load sessions for analytics", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Failed to generate analytics")
			return
		}
		respondJSON(w, http.StatusOK, apitypes.AnalyticsResponse{
			Success:     true,
			Data:        analytics.Compute(sessions),
			GeneratedAt: now().UTC(),
		})
	}
}

// Healthz reports whether the collector backend answers.
func Healthz(repo collector.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if _, err := repo.Recent(ctx, 1); err != nil {
				respondError(w, http.StatusServiceUnavailable, "collector unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, apitypes.ErrorResponse{Success: false, Error: msg})
}
