package domain

// Push envelope events.
const (
	WebPushEventMessage              = "message"
	WebPushEventSubscriptionExpiring = "subscription_expiring"
)

// Message lifecycle events carried in Message.Event.
const (
	EventMessage        = "message"
	EventMessageDeleted = "message_deleted"
	EventMessageCleared = "message_cleared"

	// ntfy server wire names for the same events.
	EventMessageDelete = "message_delete"
	EventMessageClear  = "message_clear"
)

// Action kinds.
const (
	ActionView      = "view"
	ActionHTTP      = "http"
	ActionBroadcast = "broadcast"
)

// PushPayload is the decoded body of a web push delivery.
type PushPayload struct {
	Event          string   `json:"event"`
	SubscriptionID string   `json:"subscription_id"`
	Message        *Message `json:"message,omitempty"`
}

// Message is a published message as delivered by the server.
type Message struct {
	ID          string      `json:"id" dynamodbav:"id"`
	Time        int64       `json:"time,omitempty" dynamodbav:"time"`
	Expires     int64       `json:"expires,omitempty" dynamodbav:"expires,omitempty"`
	Event       string      `json:"event" dynamodbav:"event"`
	Topic       string      `json:"topic" dynamodbav:"topic"`
	Title       string      `json:"title,omitempty" dynamodbav:"title,omitempty"`
	Message     string      `json:"message,omitempty" dynamodbav:"message,omitempty"`
	Tags        []string    `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	Priority    int         `json:"priority,omitempty" dynamodbav:"priority,omitempty"`
	Click       string      `json:"click,omitempty" dynamodbav:"click,omitempty"`
	Icon        string      `json:"icon,omitempty" dynamodbav:"icon,omitempty"`
	Actions     []Action    `json:"actions,omitempty" dynamodbav:"actions,omitempty"`
	Attachment  *Attachment `json:"attachment,omitempty" dynamodbav:"attachment,omitempty"`
	ContentType string      `json:"content_type,omitempty" dynamodbav:"content_type,omitempty"`
	Encoding    string      `json:"encoding,omitempty" dynamodbav:"encoding,omitempty"`
	SequenceID  string      `json:"sequence_id,omitempty" dynamodbav:"sequence_id,omitempty"`
}

// SequenceKey returns the key used to correlate this message with earlier
// versions of itself: the sequence id, or the message id when there is none.
func (m *Message) SequenceKey() string {
	if m.SequenceID != "" {
		return m.SequenceID
	}
	return m.ID
}

// FindAction returns the action with the given label, or nil.
func (m *Message) FindAction(label string) *Action {
	for i := range m.Actions {
		if m.Actions[i].Label == label {
			return &m.Actions[i]
		}
	}
	return nil
}

// Action is a user action button declared on a message.
type Action struct {
	ID      string            `json:"id,omitempty" dynamodbav:"id,omitempty"`
	Action  string            `json:"action" dynamodbav:"action" validate:"required,oneof=view http broadcast"`
	Label   string            `json:"label" dynamodbav:"label" validate:"required"`
	URL     string            `json:"url,omitempty" dynamodbav:"url,omitempty" validate:"omitempty,url"`
	Method  string            `json:"method,omitempty" dynamodbav:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty" dynamodbav:"headers,omitempty"`
	Body    string            `json:"body,omitempty" dynamodbav:"body,omitempty"`
	Clear   bool              `json:"clear,omitempty" dynamodbav:"clear,omitempty"`
}

// Attachment describes a file attached to a message.
type Attachment struct {
	Name    string `json:"name" dynamodbav:"name"`
	Type    string `json:"type,omitempty" dynamodbav:"type,omitempty"`
	Size    int64  `json:"size,omitempty" dynamodbav:"size,omitempty"`
	Expires int64  `json:"expires,omitempty" dynamodbav:"expires,omitempty"`
	URL     string `json:"url" dynamodbav:"url"`
}
