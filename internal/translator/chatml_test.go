package translator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *ChatService) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := &ChatService{
		name:    "groq",
		baseURL: server.URL,
		apiKey:  "test-key",
		model:   groqModel,
		client:  server.Client(),
	}
	return server, svc
}

func TestChatService_Translate(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest

	_, svc := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  こんにちは  "}},
			},
		})
	})

	res, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "ja"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.TranslatedText != "こんにちは" {
		t.Errorf("expected trimmed translation, got %q", res.TranslatedText)
	}
	if res.TargetLang != "ja" {
		t.Errorf("expected target ja, got %q", res.TargetLang)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[1].Content != "Hello" {
		t.Errorf("unexpected chat payload: %+v", gotBody)
	}
}

func TestChatService_Translate_UnsupportedLanguage(t *testing.T) {
	called := false
	_, svc := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "xx"})
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if called {
		t.Error("validation failure must not reach the backend")
	}
}

func TestChatService_Translate_APIError(t *testing.T) {
	_, svc := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	})

	_, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "ja"})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", pe.Status)
	}
	if !pe.Transient() {
		t.Error("429 should be transient")
	}
}

func TestChatService_Translate_EmptyChoices(t *testing.T) {
	_, svc := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "ja"})
	if !errors.Is(err, ErrEmptyTranslation) {
		t.Fatalf("expected ErrEmptyTranslation, got %v", err)
	}
}

func TestChatService_Translate_MalformedPayload(t *testing.T) {
	_, svc := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := svc.Translate(context.Background(), Request{Text: "Hello", TargetLang: "ja"})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError for malformed payload, got %v", err)
	}
	if pe.Transient() {
		t.Error("a malformed 200 response is not transient")
	}
}

func TestNewDeepSeekService_DefaultBaseURL(t *testing.T) {
	svc := NewDeepSeekService("key", "")
	if svc.baseURL != deepseekBaseURL {
		t.Errorf("expected default base URL, got %q", svc.baseURL)
	}
	if svc.Name() != "deepseek" {
		t.Errorf("expected name deepseek, got %q", svc.Name())
	}
}
