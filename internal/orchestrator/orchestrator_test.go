package orchestrator

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lineglot/lineglot/internal/settings"
	"github.com/lineglot/lineglot/internal/translator"
)

type mockProvider struct {
	nameVal       string
	translateFunc func(ctx context.Context, req translator.Request) (*translator.Result, error)
	callCount     atomic.Int32
}

func (m *mockProvider) Name() string {
	if m.nameVal == "" {
		return "mock"
	}
	return m.nameVal
}

func (m *mockProvider) Translate(ctx context.Context, req translator.Request) (*translator.Result, error) {
	m.callCount.Add(1)
	if m.translateFunc != nil {
		return m.translateFunc(ctx, req)
	}
	return &translator.Result{TargetLang: req.TargetLang, TranslatedText: "[" + req.TargetLang + "] " + req.Text}, nil
}

func config(a, b, c string) *settings.Setting {
	return &settings.Setting{
		ContextID:      "G1",
		ContextType:    "group",
		PrimaryLangA:   a,
		PrimaryLangB:   b,
		SecondaryLangC: c,
		IsTranslating:  true,
	}
}

func TestTranslate_SelfMatchSuppression(t *testing.T) {
	mock := &mockProvider{}
	o := New(mock, zerolog.Nop())

	results := o.Translate(context.Background(), "Hello world", config("en", "zh-TW", ""))

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].PassThrough || results[0].TargetLang != "en" {
		t.Errorf("expected pass-through en slot first, got %+v", results[0])
	}
	if results[0].Text != "Hello world" {
		t.Errorf("pass-through slot must carry the original text, got %q", results[0].Text)
	}
	if results[1].TargetLang != "zh-TW" || results[1].Err != nil {
		t.Errorf("expected translated zh-TW slot, got %+v", results[1])
	}
	if got := mock.callCount.Load(); got != 1 {
		t.Errorf("self-match must not consume a provider call: got %d calls", got)
	}
}

func TestTranslate_TargetOrderInvariance(t *testing.T) {
	mock := &mockProvider{}
	mock.translateFunc = func(ctx context.Context, req translator.Request) (*translator.Result, error) {
		// First configured target finishes last.
		if req.TargetLang == "zh-TW" {
			time.Sleep(50 * time.Millisecond)
		}
		return &translator.Result{TargetLang: req.TargetLang, TranslatedText: req.TargetLang}, nil
	}
	o := New(mock, zerolog.Nop())

	// English source: none of the targets match, all three are translated.
	results := o.Translate(context.Background(), "Good morning", config("zh-TW", "ja", "ko"))

	want := []string{"zh-TW", "ja", "ko"}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, target := range want {
		if results[i].TargetLang != target {
			t.Errorf("result[%d] = %q, want %q (order must follow configuration, not completion)", i, results[i].TargetLang, target)
		}
	}
}

func TestTranslate_Deduplication(t *testing.T) {
	mock := &mockProvider{}
	o := New(mock, zerolog.Nop())

	results := o.Translate(context.Background(), "Good morning", config("zh-TW", "zh-TW", "ko"))

	if len(results) != 2 {
		t.Fatalf("expected 2 results after dedupe, got %d", len(results))
	}
	if results[0].TargetLang != "zh-TW" || results[1].TargetLang != "ko" {
		t.Errorf("unexpected targets: %+v", results)
	}
	if got := mock.callCount.Load(); got != 2 {
		t.Errorf("expected one call per distinct target, got %d", got)
	}
}

func TestTranslate_PartialFailureIsolation(t *testing.T) {
	mock := &mockProvider{}
	mock.translateFunc = func(ctx context.Context, req translator.Request) (*translator.Result, error) {
		if req.TargetLang == "ja" {
			return nil, &translator.ProviderError{Provider: "mock", Status: 500, Message: "boom"}
		}
		return &translator.Result{TargetLang: req.TargetLang, TranslatedText: req.TargetLang}, nil
	}
	o := New(mock, zerolog.Nop())

	results := o.Translate(context.Background(), "Good morning", config("zh-TW", "ja", "ko"))

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy targets must not be affected: %+v", results)
	}
	if results[1].Err == nil {
		t.Error("expected failure marker for ja")
	}
	if results[1].TargetLang != "ja" {
		t.Errorf("failure marker must be tagged with its target, got %q", results[1].TargetLang)
	}
}

func TestTranslate_EmptyCandidates(t *testing.T) {
	mock := &mockProvider{}
	o := New(mock, zerolog.Nop())

	if results := o.Translate(context.Background(), "Hello", config("", "", "")); len(results) != 0 {
		t.Errorf("no configured languages: expected empty result, got %+v", results)
	}
	if results := o.Translate(context.Background(), "Hello", nil); len(results) != 0 {
		t.Errorf("nil config: expected empty result, got %+v", results)
	}
	// Only configured language equals the detected source.
	if results := o.Translate(context.Background(), "Hello", config("en", "", "")); len(results) != 0 {
		t.Errorf("self-only configuration: expected empty result, got %+v", results)
	}
	if got := mock.callCount.Load(); got != 0 {
		t.Errorf("expected zero provider calls, got %d", got)
	}
}

func TestTranslate_InputTruncation(t *testing.T) {
	var gotLen int
	mock := &mockProvider{}
	mock.translateFunc = func(ctx context.Context, req translator.Request) (*translator.Result, error) {
		gotLen = len([]rune(req.Text))
		return &translator.Result{TargetLang: req.TargetLang, TranslatedText: strings.Repeat("あ", MaxOutputRunes+50)}, nil
	}
	o := New(mock, zerolog.Nop())

	long := strings.Repeat("x", MaxInputRunes+500)
	results := o.Translate(context.Background(), long, config("ja", "", ""))

	if gotLen != MaxInputRunes {
		t.Errorf("provider received %d runes, want %d", gotLen, MaxInputRunes)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if outLen := len([]rune(results[0].Text)); outLen != MaxOutputRunes {
		t.Errorf("output length %d, want %d", outLen, MaxOutputRunes)
	}
}
