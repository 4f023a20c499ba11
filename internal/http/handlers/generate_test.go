package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"lenslab/internal/auth"
	"lenslab/internal/domain"
	"lenslab/internal/imagegen"
	"lenslab/internal/infra"
	"lenslab/internal/middleware"
	"lenslab/internal/store"
)

type stubCaller struct {
	calls      int
	resp       imagegen.ChatResponse
	err        error
	gotConfig  imagegen.UpstreamConfig
	gotPayload imagegen.ChatPayload
}

func (s *stubCaller) ChatCompletion(_ context.Context, cfg imagegen.UpstreamConfig, payload imagegen.ChatPayload) (imagegen.ChatResponse, error) {
	s.calls++
	s.gotConfig = cfg
	s.gotPayload = payload
	return s.resp, s.err
}

func chatResponseWith(t *testing.T, content string) imagegen.ChatResponse {
	t.Helper()
	var r imagegen.ChatResponse
	raw := fmt.Sprintf(`{"choices":[{"message":{"content":%s}}]}`, strconv.Quote(content))
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("build chat response: %v", err)
	}
	return r
}

func newTestApp(t *testing.T, caller ChatCaller) *App {
	t.Helper()
	cfg := &infra.Config{
		AppEnv:          "test",
		JWTSecret:       "test-secret",
		AdminEmail:      "admin@lenslab.local",
		APIBaseURL:      "https://operator.example.com/v1",
		APIKey:          "operator-key",
		ModelName:       "gemini-3-pro-image",
		DataDir:         t.TempDir(),
		UpstreamTimeout: 5 * time.Second,
		RateLimitPerMin: 100,
	}
	users, err := store.NewUserStore(cfg.DataDir)
	if err != nil {
		t.Fatalf("NewUserStore error: %v", err)
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, false)
	if err != nil {
		t.Fatalf("NewTokenManager error: %v", err)
	}
	app := NewApp(cfg, zerolog.Nop(), users, tokens)
	if caller != nil {
		app.Upstream = caller
	}
	return app
}

// seedUser registers a user, optionally with stored upstream credentials, and
// returns its principal.
func seedUser(t *testing.T, app *App, email string, withConfig bool) domain.Principal {
	t.Helper()
	hash, err := auth.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	user, err := app.Users.Create(email, "tester", hash)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if withConfig {
		if _, err := app.Users.UpdateAPIConfig(user.ID, "https://user.example.com/v1", "user-key"); err != nil {
			t.Fatalf("UpdateAPIConfig error: %v", err)
		}
	}
	return domain.Principal{UserID: user.ID, Email: user.Email, Username: user.Username}
}

func doGenerate(app *App, principal *domain.Principal, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	if principal != nil {
		req = req.WithContext(middleware.ContextWithPrincipal(req.Context(), *principal))
	}
	rec := httptest.NewRecorder()
	app.Generate(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body["error"]
}

func TestGenerateRequiresAuth(t *testing.T) {
	caller := &stubCaller{}
	app := newTestApp(t, caller)

	rec := doGenerate(app, nil, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if caller.calls != 0 {
		t.Fatalf("upstream called %d times, want 0", caller.calls)
	}
}

func TestGenerateMissingFields(t *testing.T) {
	app := newTestApp(t, &stubCaller{})
	principal := seedUser(t, app, "u@example.com", true)

	for _, body := range []string{
		`{"prompt":"sketch"}`,
		`{"imageBase64":"Zm9v"}`,
		`not json`,
	} {
		rec := doGenerate(app, &principal, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

// Scenario: a standard user without stored credentials is rejected before any
// outbound call is made.
func TestGenerateCredentialGate(t *testing.T) {
	caller := &stubCaller{}
	app := newTestApp(t, caller)
	principal := seedUser(t, app, "noconfig@example.com", false)

	rec := doGenerate(app, &principal, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if caller.calls != 0 {
		t.Fatalf("upstream called %d times, want 0", caller.calls)
	}
}

func TestGenerateAdminMissingOperatorKey(t *testing.T) {
	app := newTestApp(t, &stubCaller{})
	app.Resolver = imagegen.NewResolver(imagegen.UpstreamConfig{BaseURL: "https://op/v1"}, app.Users)
	admin := domain.Principal{UserID: "a1", Email: "admin@lenslab.local", Admin: true}

	rec := doGenerate(app, &admin, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

// Scenario: stored user credentials, upstream answers with an inline data
// URI.
func TestGenerateDataURISuccess(t *testing.T) {
	caller := &stubCaller{resp: chatResponseWith(t, "data:image/png;base64,iVBORw0KGgo=")}
	app := newTestApp(t, caller)
	principal := seedUser(t, app, "u@example.com", true)

	rec := doGenerate(app, &principal, `{"imageBase64":"Zm9v","mimeType":"image/jpeg","prompt":"sketch"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Image != "iVBORw0KGgo=" || resp.MIMEType != "image/png" {
		t.Fatalf("response mismatch: %+v", resp)
	}

	// The call used the user's stored credentials, not the operator's.
	if caller.gotConfig.BaseURL != "https://user.example.com/v1" || caller.gotConfig.APIKey != "user-key" {
		t.Fatalf("wrong upstream config: %+v", caller.gotConfig)
	}
	if caller.gotPayload.Model != "gemini-3-pro-image" {
		t.Fatalf("wrong model: %q", caller.gotPayload.Model)
	}
}

// Scenario: upstream answers with prose instead of an image.
func TestGenerateModelReturnedText(t *testing.T) {
	caller := &stubCaller{resp: chatResponseWith(t, "I cannot process this.")}
	app := newTestApp(t, caller)
	principal := seedUser(t, app, "u@example.com", true)

	rec := doGenerate(app, &principal, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	msg := decodeError(t, rec)
	if !strings.Contains(msg, `"I cannot process this."`) {
		t.Fatalf("error should carry the excerpt: %q", msg)
	}
}

func TestGenerateEmptyContent(t *testing.T) {
	app := newTestApp(t, &stubCaller{resp: imagegen.ChatResponse{}})
	principal := seedUser(t, app, "u@example.com", true)

	rec := doGenerate(app, &principal, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "no content in response" {
		t.Fatalf("message mismatch: %q", msg)
	}
}

func TestGenerateUpstreamUnreachable(t *testing.T) {
	caller := &stubCaller{err: &imagegen.UnreachableError{BaseURL: "https://user.example.com/v1", Err: fmt.Errorf("connection refused")}}
	app := newTestApp(t, caller)
	principal := seedUser(t, app, "u@example.com", true)

	rec := doGenerate(app, &principal, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "https://user.example.com/v1") {
		t.Fatalf("error should carry the base url: %q", msg)
	}
}

func TestGenerateUpstreamStatusPassthrough(t *testing.T) {
	caller := &stubCaller{err: &imagegen.UpstreamError{Status: http.StatusTooManyRequests, Message: "rate limited"}}
	app := newTestApp(t, caller)
	principal := seedUser(t, app, "u@example.com", true)

	rec := doGenerate(app, &principal, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "rate limited" {
		t.Fatalf("message mismatch: %q", msg)
	}
}

func TestGenerateUpstreamGenericError(t *testing.T) {
	caller := &stubCaller{err: &imagegen.UpstreamError{Status: http.StatusBadGateway}}
	app := newTestApp(t, caller)
	principal := seedUser(t, app, "u@example.com", true)

	rec := doGenerate(app, &principal, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "API error (502)" {
		t.Fatalf("message mismatch: %q", msg)
	}
}

// The URL fallback fetches the remote image and re-encodes it.
func TestGenerateURLFallback(t *testing.T) {
	raw := []byte("fake image bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(raw)
	}))
	defer ts.Close()

	caller := &stubCaller{resp: chatResponseWith(t, "your image: "+ts.URL+"/result.webp")}
	app := newTestApp(t, caller)
	app.Extractor = imagegen.NewExtractor(imagegen.ExtractorOptions{HTTPClient: ts.Client(), Logger: zerolog.Nop()})
	principal := seedUser(t, app, "u@example.com", true)

	rec := doGenerate(app, &principal, `{"imageBase64":"Zm9v","prompt":"sketch"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MIMEType != "image/webp" {
		t.Fatalf("mime mismatch: %q", resp.MIMEType)
	}
	if resp.Image != base64.StdEncoding.EncodeToString(raw) {
		t.Fatalf("image mismatch: %q", resp.Image)
	}
}

func TestGenerateLocalizedErrors(t *testing.T) {
	app := newTestApp(t, &stubCaller{})
	principal := seedUser(t, app, "u@example.com", false)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"imageBase64":"Zm9v","prompt":"sketch"}`))
	ctx := middleware.ContextWithPrincipal(req.Context(), principal)
	ctx = context.WithValue(ctx, middleware.LocaleKey, "zh")
	rec := httptest.NewRecorder()
	app.Generate(rec, req.WithContext(ctx))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "API 端点") {
		t.Fatalf("expected localized message, got %q", msg)
	}
}
