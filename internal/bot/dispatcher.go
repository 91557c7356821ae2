// Package bot routes webhook events: text messages to the translation
// orchestrator, commands and button postbacks to the configuration handlers.
package bot

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lineglot/lineglot/internal/language"
	"github.com/lineglot/lineglot/internal/line"
	"github.com/lineglot/lineglot/internal/metrics"
	"github.com/lineglot/lineglot/internal/orchestrator"
	"github.com/lineglot/lineglot/internal/settings"
)

// Replier delivers reply messages for an event. *line.Client satisfies it.
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages []line.Message) error
}

// Dispatcher handles the events of webhook deliveries.
type Dispatcher struct {
	store   *settings.Store
	orch    *orchestrator.Orchestrator
	replier Replier
	log     zerolog.Logger
}

// New builds a Dispatcher.
func New(store *settings.Store, orch *orchestrator.Orchestrator, replier Replier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{store: store, orch: orch, replier: replier, log: log}
}

// HandleEvents processes every event of one delivery concurrently. Events in
// a payload carry no ordering guarantee, so each runs in its own goroutine;
// one event's failure never touches its siblings. Returns once every event
// has been handled and replied to.
func (d *Dispatcher) HandleEvents(ctx context.Context, events []line.Event) {
	var wg sync.WaitGroup
	for _, ev := range events {
		wg.Add(1)
		go func(ev line.Event) {
			defer wg.Done()
			d.handleEvent(ctx, ev)
		}(ev)
	}
	wg.Wait()
}

func (d *Dispatcher) handleEvent(ctx context.Context, ev line.Event) {
	log := d.log.With().
		Str("event_id", uuid.NewString()).
		Str("event_type", ev.Type).
		Str("context_id", ev.Source.ContextID()).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("event handler panicked")
			d.reply(ctx, log, ev.ReplyToken, []line.Message{line.NewText(msgProcessingFailed)})
		}
	}()

	metrics.RecordEvent(ev.Type)

	var msgs []line.Message
	switch {
	case ev.Type == "message" && ev.Message != nil && ev.Message.Type == "text":
		msgs = d.handleText(ctx, log, ev)
	case ev.Type == "postback" && ev.Postback != nil:
		msgs = d.handlePostback(ctx, log, ev)
	default:
		// Stickers, images, joins etc. are not translated.
		return
	}

	d.reply(ctx, log, ev.ReplyToken, msgs)
}

func (d *Dispatcher) reply(ctx context.Context, log zerolog.Logger, replyToken string, msgs []line.Message) {
	if len(msgs) == 0 || replyToken == "" {
		return
	}
	if err := d.replier.Reply(ctx, replyToken, msgs); err != nil {
		metrics.RecordReplyFailure()
		log.Error().Err(err).Msg("reply delivery failed")
	}
}

func (d *Dispatcher) handleText(ctx context.Context, log zerolog.Logger, ev line.Event) []line.Message {
	text := strings.TrimSpace(ev.Message.Text)
	if strings.HasPrefix(text, "/") {
		return d.handleCommand(ctx, log, ev, text)
	}

	contextID := ev.Source.ContextID()
	if contextID == "" {
		return nil
	}

	cfg, err := d.store.Get(ctx, contextID, string(ev.Source.Type))
	if err != nil {
		log.Error().Err(err).Msg("settings lookup failed")
		return []line.Message{line.NewText(msgSettingFailed)}
	}
	// No stored configuration means translation is simply inactive here.
	if cfg == nil || !cfg.IsTranslating {
		return nil
	}

	if text == "" {
		return []line.Message{line.NewText(msgSendTextOnly)}
	}

	results := d.orch.Translate(ctx, text, cfg)
	if len(results) == 0 {
		return nil
	}
	return formatResults(text, results)
}

func (d *Dispatcher) handleCommand(ctx context.Context, log zerolog.Logger, ev line.Event, text string) []line.Message {
	cmd := strings.ToLower(strings.TrimPrefix(text, "/"))
	switch cmd {
	case "翻譯", "translate":
		return []line.Message{line.SettingsMenu()}
	case "狀態", "status":
		return d.statusReply(ctx, log, ev)
	case "help", "說明":
		return []line.Message{line.NewText(msgHelp)}
	}

	// A bare language code sets primary language A directly, e.g. "/ja".
	if code, ok := language.Canonical(cmd); ok {
		return d.setLanguage(ctx, log, ev, settings.FieldPrimaryA, code)
	}
	return []line.Message{line.NewText(msgHelp)}
}

func (d *Dispatcher) statusReply(ctx context.Context, log zerolog.Logger, ev line.Event) []line.Message {
	cfg, err := d.store.Get(ctx, ev.Source.ContextID(), string(ev.Source.Type))
	if err != nil {
		log.Error().Err(err).Msg("settings lookup failed")
		return []line.Message{line.NewText(msgSettingFailed)}
	}
	if cfg == nil {
		return []line.Message{line.NewText(msgNotConfigured)}
	}
	return []line.Message{line.NewText(formatStatus(cfg))}
}

func (d *Dispatcher) handlePostback(ctx context.Context, log zerolog.Logger, ev line.Event) []line.Message {
	values, err := url.ParseQuery(ev.Postback.Data)
	if err != nil {
		log.Warn().Err(err).Str("data", ev.Postback.Data).Msg("malformed postback data")
		return nil
	}
	action := values.Get("action")

	contextID := ev.Source.ContextID()
	if contextID == "" {
		return nil
	}

	switch action {
	case line.ActionShowPrimaryA:
		return []line.Message{line.LanguageListMenu("a")}
	case line.ActionShowPrimaryB:
		return []line.Message{line.LanguageListMenu("b")}
	case line.ActionShowSecondaryC:
		return []line.Message{line.LanguageListMenu("c")}

	case line.ActionSetPrimaryA:
		code, ok := language.Canonical(values.Get("lang"))
		if !ok {
			return []line.Message{line.NewText(msgUnsupportedLanguage)}
		}
		msgs := d.setLanguage(ctx, log, ev, settings.FieldPrimaryA, code)
		if len(msgs) == 1 {
			// Walk the user to the next setup step.
			msgs = append(msgs, line.LanguageListMenu("b"))
		}
		return msgs

	case line.ActionSetPrimaryB:
		code, ok := language.Canonical(values.Get("lang"))
		if !ok {
			return []line.Message{line.NewText(msgUnsupportedLanguage)}
		}
		cfg, err := d.store.Get(ctx, contextID, string(ev.Source.Type))
		if err != nil {
			log.Error().Err(err).Msg("settings lookup failed")
			return []line.Message{line.NewText(msgSettingFailed)}
		}
		if cfg == nil || cfg.PrimaryLangA == "" {
			return []line.Message{line.NewText(msgNeedPrimaryA)}
		}
		msgs := d.setLanguage(ctx, log, ev, settings.FieldPrimaryB, code)
		if len(msgs) == 1 {
			msgs = append(msgs, line.LanguageListMenu("c"))
		}
		return msgs

	case line.ActionSetSecondaryC:
		code, ok := language.Canonical(values.Get("lang"))
		if !ok {
			return []line.Message{line.NewText(msgUnsupportedLanguage)}
		}
		cfg, err := d.store.Get(ctx, contextID, string(ev.Source.Type))
		if err != nil {
			log.Error().Err(err).Msg("settings lookup failed")
			return []line.Message{line.NewText(msgSettingFailed)}
		}
		if cfg == nil || cfg.PrimaryLangA == "" || cfg.PrimaryLangB == "" {
			return []line.Message{line.NewText(msgNeedPrimaryAB)}
		}
		if err := d.store.SetField(ctx, contextID, string(ev.Source.Type), settings.FieldSecondaryC, code); err != nil {
			log.Error().Err(err).Msg("settings update failed")
			return []line.Message{line.NewText(msgSettingFailed)}
		}
		cfg.SecondaryLangC = code
		return []line.Message{line.NewText(formatSetupComplete(cfg))}

	case line.ActionToggle:
		return d.toggleTranslation(ctx, log, ev, values)
	}

	log.Debug().Str("action", action).Msg("ignoring unknown postback action")
	return nil
}

func (d *Dispatcher) setLanguage(ctx context.Context, log zerolog.Logger, ev line.Event, field settings.Field, code string) []line.Message {
	err := d.store.SetField(ctx, ev.Source.ContextID(), string(ev.Source.Type), field, code)
	if err != nil {
		log.Error().Err(err).Str("field", string(field)).Msg("settings update failed")
		return []line.Message{line.NewText(msgSettingFailed)}
	}
	return []line.Message{line.NewText(formatLanguageSet(field, code))}
}

func (d *Dispatcher) toggleTranslation(ctx context.Context, log zerolog.Logger, ev line.Event, values url.Values) []line.Message {
	contextID := ev.Source.ContextID()
	contextType := string(ev.Source.Type)

	var enabled bool
	if raw := values.Get("enable"); raw != "" {
		// Button carries an explicit on/off.
		want, err := strconv.ParseBool(raw)
		if err != nil {
			return nil
		}
		if err := d.store.SetTranslating(ctx, contextID, contextType, want); err != nil {
			log.Error().Err(err).Msg("settings update failed")
			return []line.Message{line.NewText(msgSettingFailed)}
		}
		enabled = want
	} else {
		var err error
		enabled, err = d.store.Toggle(ctx, contextID, contextType)
		if err != nil {
			log.Error().Err(err).Msg("settings update failed")
			return []line.Message{line.NewText(msgSettingFailed)}
		}
	}

	if enabled {
		return []line.Message{line.NewText(msgTranslationOn)}
	}
	return []line.Message{line.NewText(msgTranslationOff)}
}
