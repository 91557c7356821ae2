// Package orchestrator turns one inbound message plus a conversation's
// language configuration into an ordered set of translation results.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lineglot/lineglot/internal/detector"
	"github.com/lineglot/lineglot/internal/metrics"
	"github.com/lineglot/lineglot/internal/settings"
	"github.com/lineglot/lineglot/internal/translator"
)

// Text bounds applied around provider calls. Inbound text is cut before it is
// sent; provider output is cut before it reaches the reply.
const (
	MaxInputRunes  = 1000
	MaxOutputRunes = 2000
)

// Result is one slot of the reply payload. Exactly one of the following
// holds: PassThrough (the target matched the detected source, Text is the
// original), Err (the provider failed for this target), or a translation in
// Text.
type Result struct {
	TargetLang  string
	Text        string
	PassThrough bool
	Err         error
}

// Orchestrator fans one message out to the configured target languages.
type Orchestrator struct {
	provider translator.Provider
	detect   func(string) string
	log      zerolog.Logger
}

// New builds an Orchestrator on top of a single provider.
func New(provider translator.Provider, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		detect:   detector.Detect,
		log:      log,
	}
}

// Translate implements the dispatch protocol: candidate targets in the fixed
// order [primary A, primary B, secondary C] minus unset slots, first
// occurrence wins on duplicates, targets equal to the detected source become
// pass-through slots without a provider call, the remaining targets are
// translated concurrently and independently, and the returned slice preserves
// candidate order no matter which call finishes first.
//
// When nothing would reach a provider (no languages configured, or every
// configured language is the detected source) the result is empty.
func (o *Orchestrator) Translate(ctx context.Context, text string, cfg *settings.Setting) []Result {
	if cfg == nil {
		return nil
	}

	text = truncateRunes(text, MaxInputRunes)
	source := o.detect(text)

	var order []string
	seen := make(map[string]bool, 3)
	for _, lang := range []string{cfg.PrimaryLangA, cfg.PrimaryLangB, cfg.SecondaryLangC} {
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		order = append(order, lang)
	}

	slots := make(map[string]*Result, len(order))
	var targets []string
	for _, target := range order {
		if target == source {
			slots[target] = &Result{TargetLang: target, Text: text, PassThrough: true}
			continue
		}
		targets = append(targets, target)
	}
	if len(targets) == 0 {
		return nil
	}

	o.log.Debug().
		Str("source", source).
		Strs("targets", targets).
		Msg("dispatching translation fan-out")

	type outcome struct {
		target string
		res    *translator.Result
		err    error
	}
	outcomes := make(chan outcome, len(targets))

	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()

			start := time.Now()
			res, err := o.provider.Translate(ctx, translator.Request{
				Text:       text,
				SourceLang: source,
				TargetLang: target,
			})
			metrics.RecordTranslation(o.provider.Name(), target, time.Since(start), err)
			outcomes <- outcome{target: target, res: res, err: err}
		}(target)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for oc := range outcomes {
		if oc.err != nil {
			o.log.Warn().
				Err(oc.err).
				Str("provider", o.provider.Name()).
				Str("target", oc.target).
				Msg("translation target failed")
			slots[oc.target] = &Result{TargetLang: oc.target, Err: oc.err}
			continue
		}
		slots[oc.target] = &Result{
			TargetLang: oc.target,
			Text:       truncateRunes(oc.res.TranslatedText, MaxOutputRunes),
		}
	}

	results := make([]Result, 0, len(order))
	for _, target := range order {
		results = append(results, *slots[target])
	}
	return results
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
