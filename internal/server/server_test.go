package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/config"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	engine := calculation.NewPlanningEngine()
	engine.SetIDFunc(func() string { return "plan-http" })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.DefaultServerConfig()
	cfg.RateLimitPerMinute = 0
	return New(engine, logger, cfg).Routes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestPortfolios(t *testing.T) {
	h := newTestServer(t)

	t.Run("all", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/portfolios", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 4)
	})

	t.Run("filtered by profile", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/portfolios?profile=conservative", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 2)
		assert.Equal(t, "conservative", list[0]["id"])
		assert.Equal(t, "income", list[1]["id"])
	})

	t.Run("bad profile", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/portfolios?profile=reckless", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("single", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/portfolios/balanced", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Balanced Growth", body["name"])
		assert.Equal(t, "0.06", body["expected_return"])
	})

	t.Run("unknown", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/portfolios/crypto", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "unknown portfolio")
	})
}

func TestQuestionnaire(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/questionnaire", "")
	require.Equal(t, http.StatusOK, rec.Code)
	questions, ok := decodeBody(t, rec)["questions"].([]any)
	require.True(t, ok)
	assert.Len(t, questions, 5)
}

func TestRiskProfile(t *testing.T) {
	h := newTestServer(t)

	body := `{"answers":{"horizon":"medium","drawdown":"moderate","experience":"beginner","goal":"balance","reaction":"hold"}}`
	rec := do(t, h, http.MethodPost, "/api/risk-profile", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decodeBody(t, rec)
	assert.Equal(t, float64(9), out["score"])
	assert.Equal(t, "Balanced", out["profile"])
	assert.Len(t, out["portfolios"], 3)

	rec = do(t, h, http.MethodPost, "/api/risk-profile", `{"answers":{"horizon":"long"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "risk_answers")

	rec = do(t, h, http.MethodPost, "/api/risk-profile", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "answers failed required")
}

func TestProjection(t *testing.T) {
	h := newTestServer(t)

	body := `{"initial_amount":5000,"periodic_contribution":500,"periods_per_year":12,"years":10,"annual_return_rate":0.06}`
	rec := do(t, h, http.MethodPost, "/api/projection", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decodeBody(t, rec)
	assert.Equal(t, "91036.66", out["ending_value"])
	assert.Equal(t, "26036.66", out["growth"])
	assert.Equal(t, "nominal", out["rate_convention"])
	assert.Len(t, out["points"], 121)

	rec = do(t, h, http.MethodPost, "/api/projection",
		`{"initial_amount":5000,"periodic_contribution":500,"periods_per_year":12,"years":10,"annual_return_rate":0.06,"granularity":"year"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decodeBody(t, rec)
	assert.Len(t, out["points"], 11)
	assert.Equal(t, "year", out["granularity"])
}

func TestProjection_Rejections(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty body", "", "request body is empty"},
		{"malformed", `{"initial_amount":`, "invalid JSON"},
		{"unknown field", `{"initial_amount":1,"periods_per_year":12,"bonus":1}`, "bonus"},
		{"weekly", `{"initial_amount":1,"periodic_contribution":1,"periods_per_year":52,"years":1,"annual_return_rate":0.05}`, "periods_per_year failed oneof"},
		{"negative amount", `{"initial_amount":-1,"periodic_contribution":1,"periods_per_year":12,"years":1,"annual_return_rate":0.05}`, "initial_amount failed gte"},
		{"bad convention", `{"initial_amount":1,"periods_per_year":12,"years":1,"annual_return_rate":0.05,"rate_convention":"continuous"}`, "rate_convention failed oneof"},
		{"nothing to project", `{"initial_amount":0,"periodic_contribution":0,"periods_per_year":12,"years":1,"annual_return_rate":0.05}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/projection", tt.body)
			if tt.wantMsg == "" {
				// Zero inputs are valid and simply project zero.
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody(t, rec)["error"], tt.wantMsg)
		})
	}
}

func TestOptimization(t *testing.T) {
	h := newTestServer(t)

	body := `{"initial_amount":5000,"periodic_contribution":500,"periods_per_year":12,"years":10,"annual_return_rate":0.06,"target_amount":200000}`
	rec := do(t, h, http.MethodPost, "/api/optimization", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decodeBody(t, rec)
	assert.Equal(t, "increase_contribution", out["kind"])
	assert.Equal(t, "1175", out["contribution"])
	assert.Contains(t, out["message"], "1175.00 per month")

	rec = do(t, h, http.MethodPost, "/api/optimization",
		`{"initial_amount":5000,"periodic_contribution":500,"periods_per_year":12,"years":10,"annual_return_rate":0.06,"target_amount":50000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "already_on_track", decodeBody(t, rec)["kind"])

	rec = do(t, h, http.MethodPost, "/api/optimization",
		`{"initial_amount":5000,"periodic_contribution":500,"periods_per_year":12,"years":10,"annual_return_rate":0.06}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "target_amount failed gt")

	rec = do(t, h, http.MethodPost, "/api/optimization",
		`{"initial_amount":5000,"periodic_contribution":500,"periods_per_year":12,"years":10,"annual_return_rate":0.06,"target_amount":200000,"search_policy":{"step_percent":"0.05","min_step":"0"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "search_policy.min_step")

	rec = do(t, h, http.MethodPost, "/api/optimization",
		`{"initial_amount":0,"periodic_contribution":1000,"periods_per_year":2,"years":1,"annual_return_rate":0.05,"target_amount":1000000000,`+
			`"search_policy":{"step_percent":"0.0001","min_step":"0.01","ceiling_multiple":"100","max_extra_years":10,"combined_bump":"0.25"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "search_policy.step_percent")
}

func examplePlanJSON(t *testing.T) []byte {
	t.Helper()
	plan := config.NewInputParser().CreateExampleConfiguration()
	data, err := json.Marshal(plan)
	require.NoError(t, err)
	return data
}

func TestPlan(t *testing.T) {
	h := newTestServer(t)
	body := examplePlanJSON(t)

	rec := do(t, h, http.MethodPost, "/api/plan", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "plan-http", rec.Header().Get("X-Plan-ID"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	out := decodeBody(t, rec)
	assert.Equal(t, "plan-http", out["id"])
	assert.Equal(t, "Balanced", out["risk"].(map[string]any)["profile"])
	assert.Len(t, out["comparison"], 4)
	assert.Equal(t, "increase_contribution", out["outcome"].(map[string]any)["kind"])
}

func TestPlan_Formats(t *testing.T) {
	h := newTestServer(t)
	body := string(examplePlanJSON(t))

	rec := do(t, h, http.MethodPost, "/api/plan?format=csv", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Series,Index,Years,Balance"))

	rec = do(t, h, http.MethodPost, "/api/plan?format=summary", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "GOAL PLAN SUMMARY")

	rec = do(t, h, http.MethodPost, "/api/plan?format=html", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("<!DOCTYPE html>")))

	rec = do(t, h, http.MethodPost, "/api/plan?format=pdf", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unsupported")
}

func TestPlan_Rejections(t *testing.T) {
	h := newTestServer(t)

	var plan map[string]any
	require.NoError(t, json.Unmarshal(examplePlanJSON(t), &plan))
	plan["portfolio"] = "crypto"
	data, err := json.Marshal(plan)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/plan", string(data))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	plan["portfolio"] = "balanced"
	plan["goal"].(map[string]any)["tenor_years"] = "0"
	data, err = json.Marshal(plan)
	require.NoError(t, err)

	rec = do(t, h, http.MethodPost, "/api/plan", string(data))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "tenor_years must be positive")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(badRequest{io.ErrUnexpectedEOF}))
	assert.Equal(t, http.StatusNotFound, statusFor(calculation.ErrUnknownPortfolio))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrClosedPipe))
}

func TestRateLimit(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.RateLimitPerMinute = 60
	cfg.RateLimitBurst = 2
	h := New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg).Routes()

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/api/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := newRateLimiter(60, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))

	now = now.Add(clientIdleTTL + time.Second)
	assert.True(t, rl.allow("b"))
	rl.mu.Lock()
	_, kept := rl.clients["a"]
	rl.mu.Unlock()
	assert.False(t, kept)
}
