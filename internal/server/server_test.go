package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/detect"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/humanize"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/llm"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProvider answers humanize prompts with a rewrite and classify prompts
// with a fixed judgment
type stubProvider struct {
	rewrite string
	ai      int
	err     error
}

func (p *stubProvider) Name() string                         { return "stub" }
func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	if req.System == detect.Instruction {
		return &llm.CompletionResponse{Text: fmt.Sprintf(`{"ai": %d, "human": %d, "reason": "stub"}`, p.ai, 100-p.ai)}, nil
	}
	return &llm.CompletionResponse{Text: p.rewrite}, nil
}

// fixedRand always draws index 0, so noise adds nothing
type fixedRand struct{}

func (fixedRand) IntN(n int) int { return 0 }

func newTestServer(p llm.Provider, cfg model.ServerConfig) *Server {
	h := humanize.New(humanize.NewRewriter(p, 0), humanize.NewNoise(fixedRand{}), 200, nil)
	d := detect.New(detect.NewLLMClassifier(p), score.NewAggregator(score.DefaultPolicy()), detect.Options{})
	return New(cfg, h, d, nil)
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(&stubProvider{}, model.ServerConfig{})
	w, out := do(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", out["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHumanize_OK(t *testing.T) {
	s := newTestServer(&stubProvider{rewrite: "Yeah it works fine."}, model.ServerConfig{})
	w, out := do(t, s, http.MethodPost, "/humanize", `{"text":"The system functions as intended."}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Yeah it works fine.", out["humanized_text"])
	assert.Equal(t, float64(5), out["words_used"])
	assert.Equal(t, float64(195), out["words_left"])
	assert.Equal(t, true, out["trusted_human"])
}

func TestHumanize_Validation(t *testing.T) {
	s := newTestServer(&stubProvider{rewrite: "x"}, model.ServerConfig{})

	tests := []struct {
		name      string
		body      string
		wantError string
		wantLimit any
	}{
		{name: "missing text", body: `{}`, wantError: "text required"},
		{name: "blank text", body: `{"text":"   "}`, wantError: "text required"},
		{name: "empty body", body: ``, wantError: "text required"},
		{name: "malformed", body: `{"text":`, wantError: "invalid request body"},
		{name: "too long", body: `{"text":"` + strings.Repeat("w ", 201) + `"}`, wantError: "word limit exceeded", wantLimit: float64(200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := do(t, s, http.MethodPost, "/humanize", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantError, out["error"])
			assert.Equal(t, tt.wantLimit, out["limit"])
		})
	}
}

func TestHumanize_ExactLimit(t *testing.T) {
	s := newTestServer(&stubProvider{rewrite: "x"}, model.ServerConfig{})
	w, _ := do(t, s, http.MethodPost, "/humanize", `{"text":"`+strings.Repeat("w ", 200)+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHumanize_UpstreamErrorIsGeneric(t *testing.T) {
	s := newTestServer(&stubProvider{err: errors.New("invalid api key sk-secret")}, model.ServerConfig{})
	w, out := do(t, s, http.MethodPost, "/humanize", `{"text":"hello there"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgHumanizeFailed, out["error"])
	assert.NotContains(t, w.Body.String(), "sk-secret")
}

func TestHumanize_EmptyGeneration(t *testing.T) {
	s := newTestServer(&stubProvider{rewrite: "  "}, model.ServerConfig{})
	w, out := do(t, s, http.MethodPost, "/humanize", `{"text":"hello there"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgHumanizeFailed, out["error"])
}

func TestDetect_OK(t *testing.T) {
	s := newTestServer(&stubProvider{ai: 80}, model.ServerConfig{})
	w, out := do(t, s, http.MethodPost, "/detect", `{"text":"The system works well. It is efficient."}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["success"])

	overall := out["overall"].(map[string]any)
	assert.Equal(t, float64(95), overall["ai_probability"])
	assert.Equal(t, float64(5), overall["human_probability"])
	assert.Equal(t, "Likely AI-generated", overall["verdict"])

	sentences := out["sentences"].([]any)
	require.Len(t, sentences, 2)
	first := sentences[0].(map[string]any)
	assert.Equal(t, "The system works well.", first["sentence"])
	assert.Equal(t, "high", first["highlight"])
}

func TestDetect_ProviderDownFallsBack(t *testing.T) {
	s := newTestServer(&stubProvider{err: errors.New("down")}, model.ServerConfig{})
	w, out := do(t, s, http.MethodPost, "/detect", `{"text":"The system works well. It is efficient."}`)

	require.Equal(t, http.StatusOK, w.Code)
	sentences := out["sentences"].([]any)
	for _, sent := range sentences {
		assert.Equal(t, "Neutral structured sentence", sent.(map[string]any)["reason"])
	}
}

func TestDetect_Trusted(t *testing.T) {
	s := newTestServer(&stubProvider{ai: 100}, model.ServerConfig{})
	w, out := do(t, s, http.MethodPost, "/detect", `{"text":"Clearly machine text here. Another one.","trusted_human":true}`)

	require.Equal(t, http.StatusOK, w.Code)
	overall := out["overall"].(map[string]any)
	assert.Equal(t, "Human-written (Verified)", overall["verdict"])
	assert.Equal(t, float64(2), overall["ai_probability"])
}

func TestDetect_WordLimit(t *testing.T) {
	s := newTestServer(&stubProvider{ai: 10}, model.ServerConfig{})
	w, out := do(t, s, http.MethodPost, "/detect", `{"text":"`+strings.Repeat("w ", 801)+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "word limit exceeded", out["error"])
	assert.Equal(t, float64(800), out["limit"])
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(&stubProvider{}, model.ServerConfig{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(&stubProvider{rewrite: "ok"}, model.ServerConfig{RequestsPerSecond: 0.5, Burst: 2})

	for i := 0; i < 2; i++ {
		w, _ := do(t, s, http.MethodPost, "/humanize", `{"text":"hi"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, out := do(t, s, http.MethodPost, "/humanize", `{"text":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", out["error"])
	// One token refills in 2s at 0.5 rps
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	// Health is never limited
	w, _ = do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(&stubProvider{}, model.ServerConfig{CORSOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/detect", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/detect", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_Shutdown(t *testing.T) {
	s := newTestServer(&stubProvider{}, model.ServerConfig{Port: 0})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, s.Run(ctx))
}
