package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/DoyleJ11/yummy-colors-backend/internal/collector"
	"github.com/DoyleJ11/yummy-colors-backend/internal/engine"
	"github.com/DoyleJ11/yummy-colors-backend/internal/hub"
	"github.com/DoyleJ11/yummy-colors-backend/internal/session"
	"github.com/DoyleJ11/yummy-colors-backend/internal/testutil"
	"github.com/DoyleJ11/yummy-colors-backend/internal/types"
	apitypes "github.com/DoyleJ11/yummy-colors-backend/pkg/types"
)

var now = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T, adminHash string) (http.Handler, *hub.Hub, *collector.Memory) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := zaptest.NewLogger(t)
	h := hub.NewHub(ctx, func(ctx context.Context, code string) (*session.Session, error) {
		return session.NewSession(ctx, session.Deps{
			Rules:     engine.DefaultRules(),
			Generator: testutil.Generator(2),
			Logger:    log,
		}), nil
	}, log)
	repo := collector.NewMemory()

	return SetupRoutes(Deps{
		Hub:            h,
		Repo:           repo,
		Log:            log,
		AdminKeyHash:   adminHash,
		AllowedOrigins: []string{"*"},
		Now:            func() time.Time { return now },
	}), h, repo
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
}

func TestCreateSession_RegistersCode(t *testing.T) {
	router, h, _ := setup(t, "")

	w := serve(router, testutil.MakeRequest(http.MethodPost, "/sessions", nil, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var body struct {
		Code string `json:"code"`
	}
	testutil.DecodeJSON(t, w, &body)
	require.Len(t, body.Code, 6)

	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{Code: body.Code, Reply: reply}
	assert.NotNil(t, <-reply)
}

func TestCreateSession_CodesAreDistinct(t *testing.T) {
	router, _, _ := setup(t, "")

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		w := serve(router, testutil.MakeRequest(http.MethodPost, "/sessions", nil, nil))
		testutil.AssertStatus(t, w, http.StatusCreated)
		var body struct {
			Code string `json:"code"`
		}
		testutil.DecodeJSON(t, w, &body)
		assert.False(t, seen[body.Code], "code %s handed out twice", body.Code)
		seen[body.Code] = true
	}
}

func TestCreateSession_FactoryFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := zaptest.NewLogger(t)
	h := hub.NewHub(ctx, func(context.Context, string) (*session.Session, error) {
		return nil, errors.New("disk full")
	}, log)
	router := SetupRoutes(Deps{Hub: h, Repo: collector.NewMemory(), Log: log})

	w := serve(router, testutil.MakeRequest(http.MethodPost, "/sessions", nil, nil))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}

func TestSaveGameResult_StoresAndIsListed(t *testing.T) {
	router, _, repo := setup(t, "")

	gs := testutil.CompletedSession(t, "sess-1", 4, now.Add(-3*time.Minute))
	w := serve(router, testutil.MakeRequest(http.MethodPost, "/api/game-results", gs, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var saved apitypes.SaveResponse
	testutil.DecodeJSON(t, w, &saved)
	assert.True(t, saved.Success)
	assert.Equal(t, "sess-1", saved.SessionID)

	stored, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/game-results?limit=5", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var results apitypes.ResultsResponse
	testutil.DecodeJSON(t, w, &results)
	require.Equal(t, 1, results.Total)
	assert.Equal(t, "sess-1", results.Results[0].ID)
	assert.Equal(t, "3 minutes ago", results.Results[0].CompletedAgo)
	assert.Len(t, results.Results[0].FinalColors, 3)
	assert.Nil(t, results.LocationAnalytics)

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/analytics", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var an apitypes.AnalyticsResponse
	testutil.DecodeJSON(t, w, &an)
	assert.True(t, an.Success)
	assert.Equal(t, 1, an.Data.TotalSessions)
	assert.Equal(t, 3, an.Data.TotalColors)
	assert.Equal(t, 5, an.Data.TotalRounds)
	assert.True(t, an.GeneratedAt.Equal(now))
}

func TestSaveGameResult_DefaultsCompletedAt(t *testing.T) {
	router, _, repo := setup(t, "")

	gs := testutil.CompletedSession(t, "no-time", 5, now)
	gs.CompletedAt = nil
	w := serve(router, testutil.MakeRequest(http.MethodPost, "/api/game-results", gs, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	stored, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].CompletedAt)
	assert.True(t, stored[0].CompletedAt.Equal(now))
}

func TestSaveGameResult_RejectsInvalid(t *testing.T) {
	router, _, repo := setup(t, "")

	unfinished := testutil.NewState(t, 6)
	complete := testutil.CompletedState(t, 6)
	short := complete
	short.FinalTop3 = short.FinalTop3[:1]

	cases := []struct {
		name string
		body any
	}{
		{"missing id", types.GameSession{GameState: &complete}},
		{"missing state", types.GameSession{ID: "a"}},
		{"not complete", types.GameSession{ID: "a", GameState: &unfinished}},
		{"short ranking", types.GameSession{ID: "a", GameState: &short}},
		{"not json", "just a string"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(router, testutil.MakeRequest(http.MethodPost, "/api/game-results", tc.body, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
			var body apitypes.ErrorResponse
			testutil.DecodeJSON(t, w, &body)
			assert.False(t, body.Success)
		})
	}

	stored, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestGetGameResults_LocationAnalyticsAndLimit(t *testing.T) {
	router, _, repo := setup(t, "")
	ctx := context.Background()

	for i, city := range []string{"Lisbon", "Porto", "Lisbon"} {
		gs := testutil.CompletedSession(t, city+string(rune('a'+i)), int64(i+10), now.Add(-time.Duration(i)*time.Hour))
		gs.Location = &types.Location{City: city, Country: "Portugal", CountryCode: "PT"}
		require.NoError(t, repo.Save(ctx, gs))
	}

	w := serve(router, testutil.MakeRequest(http.MethodGet, "/api/game-results?limit=2&locationAnalytics=true", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var results apitypes.ResultsResponse
	testutil.DecodeJSON(t, w, &results)
	assert.Equal(t, 2, results.Total)
	assert.Equal(t, "Lisbona", results.Results[0].ID)
	require.NotNil(t, results.LocationAnalytics)
	assert.Equal(t, 3, results.LocationAnalytics.TotalSessionsWithLocation)
	assert.Equal(t, 1, results.LocationAnalytics.UniqueCountries)
	assert.Equal(t, 2, results.LocationAnalytics.UniqueCities)

	w = serve(router, testutil.MakeRequest(http.MethodGet, "/api/game-results?limit=zero", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestAdminKey_GuardsReadEndpoints(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	router, _, _ := setup(t, string(hash))

	for _, path := range []string{"/api/game-results", "/api/analytics"} {
		w := serve(router, testutil.MakeRequest(http.MethodGet, path, nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)

		w = serve(router, testutil.MakeRequest(http.MethodGet, path, nil, map[string]string{adminKeyHeader: "wrong"}))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)

		w = serve(router, testutil.MakeRequest(http.MethodGet, path, nil, map[string]string{adminKeyHeader: "open-sesame"}))
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	// Sync clients never carry the key.
	gs := testutil.CompletedSession(t, "public-post", 8, now)
	w := serve(router, testutil.MakeRequest(http.MethodPost, "/api/game-results", gs, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestHealthz(t *testing.T) {
	router, _, _ := setup(t, "")
	w := serve(router, testutil.MakeRequest(http.MethodGet, "/healthz", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestWsOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, wsOrigins([]string{"https://a.example.com", "*"}))
	assert.Equal(t, []string{"localhost:5173", "colors.example.com"},
		wsOrigins([]string{"http://localhost:5173", "https://colors.example.com", "not a url"}))
}
