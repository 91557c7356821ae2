package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	xlang "golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService translates through the Google Cloud Translation API.
type GoogleService struct {
	credentials string
}

// NewGoogleService builds a Google-backed translator. credentialsFile may be
// empty to rely on ambient application credentials.
func NewGoogleService(credentialsFile string) *GoogleService {
	return &GoogleService{credentials: credentialsFile}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{TargetLang: req.TargetLang}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	targetTag, err := xlang.Parse(req.TargetLang)
	if err != nil {
		return result, fmt.Errorf("%q: %w", req.TargetLang, ErrUnsupportedLanguage)
	}

	var opts []option.ClientOption
	if s.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return result, fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	var translateOpts *translate.Options
	if req.SourceLang != "" && req.SourceLang != "auto" {
		if sourceTag, err := xlang.Parse(req.SourceLang); err == nil {
			translateOpts = &translate.Options{Source: sourceTag}
		}
	}

	translations, err := client.Translate(ctx, []string{req.Text}, targetTag, translateOpts)
	if err != nil {
		return result, fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		return result, fmt.Errorf("%s: %w", s.Name(), ErrEmptyTranslation)
	}

	result.TranslatedText = translations[0].Text
	return result, nil
}
