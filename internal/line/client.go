package line

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// DefaultEndpoint is the production messaging API base URL.
const DefaultEndpoint = "https://api.line.me/v2/bot"

// Client delivers reply messages through the messaging API.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewClient builds a reply client. endpoint may be empty to use
// DefaultEndpoint; token is the channel access token.
func NewClient(endpoint, token string, log zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := resty.New().
		SetBaseURL(endpoint).
		SetAuthToken(token).
		SetTimeout(10 * time.Second)

	return &Client{http: httpClient, log: log}
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

// Reply sends messages against a reply token. A nil or empty message list is
// a no-op.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(replyRequest{ReplyToken: replyToken, Messages: messages}).
		Post("/message/reply")
	if err != nil {
		return fmt.Errorf("reply request: %w", err)
	}
	if resp.IsError() {
		c.log.Warn().
			Int("status", resp.StatusCode()).
			Int("messages", len(messages)).
			Msg("reply API rejected delivery")
		return fmt.Errorf("reply API returned status %d", resp.StatusCode())
	}
	return nil
}
