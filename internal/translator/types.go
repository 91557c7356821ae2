// Package translator defines the translation provider capability and its
// concrete backend adapters.
package translator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Request asks for one text to be translated into one target language.
// SourceLang may be empty or "auto" when the source is unknown.
type Request struct {
	Text       string
	SourceLang string
	TargetLang string
}

// Result is a successful translation for one target.
type Result struct {
	TargetLang     string
	TranslatedText string
	Latency        time.Duration
}

// Provider is a translation backend. Implementations must honor ctx
// cancellation and return either a non-nil Result or an error.
type Provider interface {
	Name() string
	Translate(ctx context.Context, req Request) (*Result, error)
}

// ErrUnsupportedLanguage marks a validation failure; it is never retried.
var ErrUnsupportedLanguage = errors.New("unsupported target language")

// ErrEmptyTranslation is returned when a backend answers 2xx with no usable
// translation.
var ErrEmptyTranslation = errors.New("empty translation response")

// ProviderError is a backend failure: a non-2xx response or a malformed
// payload.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
}

// Transient reports whether retrying the same call could succeed.
func (e *ProviderError) Transient() bool {
	return e.Status == 429 || e.Status >= 500
}
