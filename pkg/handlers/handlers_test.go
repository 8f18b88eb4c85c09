package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arnavshah/roster-api-go/pkg/auth"
	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/database"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	key    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "roster.db")}, zap.NewNop())
	require.NoError(t, err)

	a := auth.New(config.AuthConfig{
		JWTSecret:       "handlers-test-jwt",
		APIMasterSecret: "handlers-test-master",
		TokenTTL:        time.Hour,
	})
	h := NewHandler(db, a, nil, zap.NewNop())
	return &testServer{
		t:      t,
		router: NewRouter(h, zap.NewNop()),
		db:     db,
		key:    a.GenerateHMACKey("campus-norte"),
	}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) api(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, body, s.key)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Version, decode[map[string]any](t, w)["version"])
}

func TestAPIKeyMiddleware(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/usage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/usage", nil, "campus-norte.deadbeef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.api(http.MethodGet, "/api/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "campus-norte", decode[map[string]any](t, w)["key_name"])
}

func TestAdminFlow(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.db.Create(&database.MasterUser{Username: "admin", PasswordHash: string(hash)}).Error)

	w := s.do(http.MethodPost, "/admin/login", gin.H{"username": "admin", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/admin/login", gin.H{"username": "admin", "password": "s3cret"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["access_token"]
	require.NotEmpty(t, token)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/admin/keys", nil, "").Code)

	w = s.do(http.MethodPost, "/admin/keys", gin.H{"name": "campus-sul"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	issued := decode[map[string]any](t, w)
	key := issued["key"].(string)
	id := strconv.Itoa(int(issued["id"].(float64)))

	w = s.do(http.MethodGet, "/api/usage", nil, key)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/admin/keys", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	keys := decode[struct {
		Keys []database.APIKey `json:"keys"`
	}](t, w).Keys
	require.Len(t, keys, 1)
	assert.Equal(t, "campus-sul", keys[0].Name)
	assert.Equal(t, auth.Preview(key), keys[0].KeyPreview)

	w = s.do(http.MethodPut, "/admin/keys/"+id, gin.H{"rate_limit": 50}, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/admin/usage/"+id, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 50, decode[map[string]any](t, w)["rate_limit"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete, "/admin/keys/abc", nil, token).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/admin/keys/999", nil, token).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/admin/keys/"+id, nil, token).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/admin/keys/"+id, nil, token).Code)

	w = s.do(http.MethodGet, "/api/usage", nil, key)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "API Key revoked", decode[map[string]any](t, w)["error"])

	w = s.do(http.MethodGet, "/admin/usage/"+id, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "campus-sul", decode[map[string]any](t, w)["key_name"])

	var stored database.APIKey
	require.NoError(t, s.db.First(&stored, "name = ?", "campus-sul").Error)
	assert.True(t, stored.Revoked())
}

func TestDailyRateLimit(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.api(http.MethodGet, "/api/usage", nil).Code)
	require.NoError(t, s.db.Model(&database.APIKey{}).Where("name = ?", "campus-norte").Update("rate_limit", 1).Error)

	w := s.api(http.MethodPost, "/api/analyze", gin.H{"month": "202512", "people": twoGuards()})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.api(http.MethodGet, "/api/usage", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["rate_limit"])
	assert.Equal(t, "86400", w.Header().Get("Retry-After"))

	require.NoError(t, s.db.Model(&database.APIKey{}).Where("name = ?", "campus-norte").Update("rate_limit", 2).Error)
	assert.Equal(t, http.StatusOK, s.api(http.MethodGet, "/api/usage", nil).Code)
}

func TestTeamDays(t *testing.T) {
	s := newTestServer(t)

	w := s.api(http.MethodGet, "/api/teams/a/days?month=202512", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Team  string `json:"team"`
		Known bool   `json:"known"`
		Days  []int  `json:"days"`
	}](t, w)
	assert.Equal(t, "A", got.Team)
	assert.True(t, got.Known)
	require.Len(t, got.Days, 15)
	assert.Equal(t, 2, got.Days[0])
	assert.Equal(t, 30, got.Days[14])

	w = s.api(http.MethodGet, "/api/teams/a/days?month=202512&vacation_start=1&vacation_end=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[struct {
		Days []int `json:"days"`
	}](t, w).Days, 10)

	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodGet, "/api/teams/a/days?month=2025", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodGet, "/api/teams/a/days?month=202512&vacation_start=5", nil).Code)
}

func TestTimeEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.api(http.MethodPost, "/api/time/parse", gin.H{"text": "06h às 18h"})
	require.Equal(t, http.StatusOK, w.Code)
	parsed := decode[map[string]any](t, w)
	assert.Equal(t, true, parsed["ok"])
	assert.Equal(t, "06:00", parsed["start"])
	assert.Equal(t, "18:00", parsed["end"])
	assert.EqualValues(t, 720, parsed["minutes"])

	w = s.api(http.MethodPost, "/api/time/parse", gin.H{"text": "***"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["ok"])

	w = s.api(http.MethodPost, "/api/time/format", gin.H{"start": "06:00", "end": "18:15"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "06h às 18h15", decode[map[string]string](t, w)["text"])

	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodPost, "/api/time/format", gin.H{"start": "6h"}).Code)
}

func TestCheckLeave(t *testing.T) {
	s := newTestServer(t)

	w := s.api(http.MethodPost, "/api/leave/check", gin.H{"note": "Licença até 20/12/2025", "month": "202601"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["returned"])

	w = s.api(http.MethodPost, "/api/leave/check", gin.H{"note": "Licença até 20/01", "month": "202601"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]bool](t, w)["returned"])

	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodPost, "/api/leave/check", gin.H{"note": "x"}).Code)
}

func TestRiskEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.api(http.MethodPost, "/api/risk", gin.H{"post": "GUARITA", "break": "12h às 13h"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]string](t, w)
	assert.Equal(t, "critical", got["category"])
	assert.Equal(t, "RED", got["level"])

	w = s.api(http.MethodPost, "/api/risk", gin.H{"post": "GUARITA", "break": "12h às 13h", "overrides": gin.H{"guarita": "yellow"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "YELLOW", decode[map[string]string](t, w)["level"])

	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodPost, "/api/risk", gin.H{"break": "12h às 13h"}).Code)
}

func twoGuards() []gin.H {
	return []gin.H{
		{"id": "ana", "name": "Ana", "team": "A", "site": "NORTE", "post": "GUARITA", "schedule": "06h às 18h", "break": "12h às 13h",
			"vacation": gin.H{"start": 10, "end": 12}},
		{"id": "bia", "name": "Bia", "team": "A", "site": "NORTE", "post": "RONDA", "schedule": "06h às 18h", "break": "14h às 15h",
			"vacation": gin.H{"start": 10, "end": 12}},
	}
}

func TestAnalyze(t *testing.T) {
	s := newTestServer(t)

	w := s.api(http.MethodPost, "/api/analyze", gin.H{"month": "202512", "people": twoGuards(), "recompute_days": true})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[AnalyzeResponse](t, w)

	require.Len(t, got.Conflicts, 2)
	assert.Equal(t, 10, got.Conflicts[0].Day)
	assert.Equal(t, 12, got.Conflicts[1].Day)
	assert.Equal(t, 0, got.Conflicts[0].Effective)
	assert.Equal(t, 2, got.Conflicts[0].Nominal)

	require.Len(t, got.People, 2)
	assert.Len(t, got.People[0].Days, 13)

	require.Len(t, got.Risk, 2)
	assert.Equal(t, "GUARITA", got.Risk[0].Post)
	assert.Equal(t, "RED", got.Risk[0].Level.String())

	w = s.api(http.MethodGet, "/api/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	totals := decode[struct {
		Totals map[string]int `json:"totals"`
	}](t, w).Totals
	assert.Equal(t, 1, totals["requests"])
	assert.Equal(t, 2, totals["people"])
	assert.Equal(t, 2, totals["conflicts"])

	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodPost, "/api/analyze", gin.H{"people": twoGuards()}).Code)
}

func TestStatusAndAvailability(t *testing.T) {
	s := newTestServer(t)
	ana := gin.H{"id": "ana", "name": "Ana", "team": "A", "site": "NORTE", "schedule": "06h às 18h", "break": "12h às 13h", "days": []int{2, 4}}

	w := s.api(http.MethodPost, "/api/status", gin.H{"person": ana, "day": 2, "time": "12:30"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "on_break", decode[map[string]any](t, w)["state"])

	w = s.api(http.MethodPost, "/api/availability", gin.H{"person": ana, "day": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "overtime", decode[map[string]any](t, w)["kind"])

	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodPost, "/api/status", gin.H{"person": ana}).Code)
}

func TestValidateInput(t *testing.T) {
	s := newTestServer(t)

	w := s.api(http.MethodPost, "/api/validate", gin.H{"month": "202512", "people": twoGuards()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["valid"])

	bad := twoGuards()
	bad[1]["id"] = "ana"
	bad[1]["team"] = "Q"
	bad[1]["days_off"] = []int{40}
	w = s.api(http.MethodPost, "/api/validate", gin.H{"month": "202512", "people": bad})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Valid    bool     `json:"valid"`
		Problems []string `json:"problems"`
	}](t, w)
	assert.False(t, got.Valid)
	assert.Len(t, got.Problems, 3)
}

func TestStoredRoster(t *testing.T) {
	s := newTestServer(t)

	ids := make(map[string]string)
	for _, p := range twoGuards() {
		delete(p, "id")
		delete(p, "vacation")
		w := s.api(http.MethodPost, "/api/people", p)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created := decode[map[string]any](t, w)
		ids[created["name"].(string)] = created["id"].(string)
	}
	w := s.api(http.MethodPost, "/api/people", gin.H{"name": "Caio", "team": "Q", "site": "NORTE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, id := range ids {
		w := s.api(http.MethodPut, "/api/roster/202512/people/"+id, gin.H{"vacation": gin.H{"start": 10, "end": 12}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Equal(t, http.StatusNotFound, s.api(http.MethodPut, "/api/roster/202512/people/nobody", gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodPut, "/api/roster/202512/people/"+ids["Ana"], gin.H{"days_off": []int{32}}).Code)

	w = s.api(http.MethodGet, "/api/roster/202512/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	conflicts := decode[struct {
		Conflicts []map[string]any `json:"conflicts"`
	}](t, w).Conflicts
	require.Len(t, conflicts, 2)
	assert.EqualValues(t, 10, conflicts[0]["day"])

	w = s.api(http.MethodGet, "/api/roster/202512/conflicts?team=B", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[struct {
		Conflicts []map[string]any `json:"conflicts"`
	}](t, w).Conflicts)

	w = s.api(http.MethodGet, "/api/roster/202601", nil)
	require.Equal(t, http.StatusOK, w.Code)
	january := decode[AnalyzeResponse](t, w)
	require.Len(t, january.People, 2)
	assert.Nil(t, january.People[0].Vacation)
	assert.Equal(t, 1, january.People[0].Days[0])

	w = s.api(http.MethodGet, "/api/roster/202512/people/"+ids["Ana"]+"/status?day=2&time=12:30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "on_break", decode[map[string]any](t, w)["state"])

	w = s.api(http.MethodGet, "/api/roster/202512/people/"+ids["Ana"]+"/availability?day=11", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "vacation", decode[map[string]any](t, w)["kind"])

	assert.Equal(t, http.StatusNotFound, s.api(http.MethodGet, "/api/roster/202512/people/nobody/status?day=2", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodGet, "/api/roster/202512/people/"+ids["Ana"]+"/status?day=32", nil).Code)

	w = s.api(http.MethodGet, "/api/roster/202512/candidates?day=3&exclude="+ids["Ana"], nil)
	require.Equal(t, http.StatusOK, w.Code)
	candidates := decode[struct {
		Candidates []map[string]any `json:"candidates"`
	}](t, w).Candidates
	require.Len(t, candidates, 1)
	assert.Equal(t, "Bia", candidates[0]["person"].(map[string]any)["name"])

	riskOf := func() string {
		w := s.api(http.MethodGet, "/api/roster/202512/risk", nil)
		require.Equal(t, http.StatusOK, w.Code)
		board := decode[struct {
			Risk []map[string]any `json:"risk"`
		}](t, w).Risk
		for _, r := range board {
			if r["post"] == "GUARITA" {
				return r["level"].(string)
			}
		}
		return ""
	}
	assert.Equal(t, "RED", riskOf())

	require.Equal(t, http.StatusOK, s.api(http.MethodPut, "/api/overrides/GUARITA", gin.H{"level": "green"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodPut, "/api/overrides/GUARITA", gin.H{"level": "purple"}).Code)
	assert.Equal(t, "GREEN", riskOf())

	w = s.api(http.MethodGet, "/api/overrides", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GREEN", decode[struct {
		Overrides map[string]string `json:"overrides"`
	}](t, w).Overrides["GUARITA"])

	assert.Equal(t, http.StatusOK, s.api(http.MethodDelete, "/api/overrides/GUARITA", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.api(http.MethodDelete, "/api/overrides/GUARITA", nil).Code)
	assert.Equal(t, "RED", riskOf())
}
