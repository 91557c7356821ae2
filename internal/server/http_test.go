package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lineglot/lineglot/internal/bot"
	"github.com/lineglot/lineglot/internal/line"
	"github.com/lineglot/lineglot/internal/orchestrator"
	"github.com/lineglot/lineglot/internal/settings"
	"github.com/lineglot/lineglot/internal/translator"
)

const testSecret = "channel-secret"

type staticProvider struct{}

func (staticProvider) Name() string { return "static" }

func (staticProvider) Translate(ctx context.Context, req translator.Request) (*translator.Result, error) {
	return &translator.Result{TargetLang: req.TargetLang, TranslatedText: "translated:" + req.TargetLang}, nil
}

type nopReplier struct{}

func (nopReplier) Reply(ctx context.Context, replyToken string, messages []line.Message) error {
	return nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := settings.Open(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	orch := orchestrator.New(staticProvider{}, zerolog.Nop())
	dispatcher := bot.New(store, orch, nopReplier{}, zerolog.Nop())
	return New(":0", testSecret, dispatcher, zerolog.Nop())
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	s := newTestServer(t)

	body := []byte(`{"events":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(line.SignatureHeader, "not-a-real-signature")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestWebhook_RejectsMissingSignature(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"events":[]}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestWebhook_AcceptsSignedEmptyDelivery(t *testing.T) {
	s := newTestServer(t)

	body := []byte(`{"events":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(line.SignatureHeader, sign(testSecret, body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestWebhook_RejectsMalformedJSON(t *testing.T) {
	s := newTestServer(t)

	body := []byte(`{"events": [`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(line.SignatureHeader, sign(testSecret, body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestWebhook_ProcessesSignedDelivery(t *testing.T) {
	s := newTestServer(t)

	body := []byte(`{"events":[{"type":"message","replyToken":"rt","source":{"type":"group","groupId":"G1"},"message":{"type":"text","id":"1","text":"hello"}}]}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set(line.SignatureHeader, sign(testSecret, body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected health body: %s", rec.Body.String())
	}
}
