package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lineglot/lineglot/internal/language"
)

const (
	groqBaseURL     = "https://api.groq.com/openai/v1"
	deepseekBaseURL = "https://api.deepseek.com/v1"

	groqModel     = "mixtral-8x7b-32768"
	deepseekModel = "deepseek-chat"
)

// ChatService translates through an OpenAI-compatible chat-completions
// endpoint. Groq and DeepSeek both speak this protocol.
type ChatService struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGroqService builds a Groq-backed translator.
func NewGroqService(apiKey string) *ChatService {
	return &ChatService{
		name:    "groq",
		baseURL: groqBaseURL,
		apiKey:  apiKey,
		model:   groqModel,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewDeepSeekService builds a DeepSeek-backed translator. baseURL may be empty
// to use the public endpoint.
func NewDeepSeekService(apiKey, baseURL string) *ChatService {
	if baseURL == "" {
		baseURL = deepseekBaseURL
	}
	return &ChatService{
		name:    "deepseek",
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   deepseekModel,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ChatService) Name() string {
	return s.name
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *ChatService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{TargetLang: req.TargetLang}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	target, ok := language.Lookup(req.TargetLang)
	if !ok {
		return result, fmt.Errorf("%q: %w", req.TargetLang, ErrUnsupportedLanguage)
	}

	body := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: fmt.Sprintf("You are a professional translator. Translate the following text to %s. "+
					"Only return the translated text without any explanations, notes, or additional text.", target.EnglishName),
			},
			{Role: "user", Content: req.Text},
		},
		Temperature: 0.3,
		MaxTokens:   2000,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return result, &ProviderError{Provider: s.name, Status: resp.StatusCode, Message: string(msg)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return result, &ProviderError{Provider: s.name, Status: resp.StatusCode, Message: fmt.Sprintf("malformed response: %v", err)}
	}

	if len(chatResp.Choices) == 0 {
		return result, fmt.Errorf("%s: %w", s.name, ErrEmptyTranslation)
	}
	translated := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if translated == "" {
		return result, fmt.Errorf("%s: %w", s.name, ErrEmptyTranslation)
	}

	result.TranslatedText = translated
	return result, nil
}
