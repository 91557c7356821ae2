// Package line holds the webhook event model, signature verification and the
// reply-delivery client for the chat platform.
package line

// SourceType identifies the kind of conversation an event came from.
type SourceType string

const (
	SourceUser  SourceType = "user"
	SourceGroup SourceType = "group"
	SourceRoom  SourceType = "room"
)

// Source describes where an event originated.
type Source struct {
	Type    SourceType `json:"type"`
	UserID  string     `json:"userId,omitempty"`
	GroupID string     `json:"groupId,omitempty"`
	RoomID  string     `json:"roomId,omitempty"`
}

// ContextID derives the stable conversation identifier for settings lookups.
// Precedence is group > room > user.
func (s Source) ContextID() string {
	switch {
	case s.GroupID != "":
		return s.GroupID
	case s.RoomID != "":
		return s.RoomID
	default:
		return s.UserID
	}
}

// MessageContent is the message part of a message event.
type MessageContent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Postback carries the URL-encoded key=value payload of a button press.
type Postback struct {
	Data string `json:"data"`
}

// Event is one entry of a webhook delivery, discriminated on Type.
type Event struct {
	Type       string          `json:"type"`
	ReplyToken string          `json:"replyToken"`
	Source     Source          `json:"source"`
	Message    *MessageContent `json:"message,omitempty"`
	Postback   *Postback       `json:"postback,omitempty"`
}

// WebhookBody is the JSON body of one webhook POST.
type WebhookBody struct {
	Events []Event `json:"events"`
}

// Message is a reply message payload accepted by the reply endpoint.
type Message interface {
	message()
}

// TextMessage is a plain text reply.
type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (TextMessage) message() {}

// NewText builds a text reply message.
func NewText(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

// FlexMessage is a rich bubble reply. Contents follows the platform's flex
// container schema and is passed through as-is.
type FlexMessage struct {
	Type     string         `json:"type"`
	AltText  string         `json:"altText"`
	Contents map[string]any `json:"contents"`
}

func (FlexMessage) message() {}
