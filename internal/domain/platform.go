package domain

import (
	"encoding/json"
	"time"
)

// ShowOptions are the rendering options of a platform notification.
type ShowOptions struct {
	Body      string               `json:"body,omitempty"`
	Icon      string               `json:"icon,omitempty"`
	Badge     string               `json:"badge,omitempty"`
	Tag       string               `json:"tag,omitempty"`
	Timestamp int64                `json:"timestamp,omitempty"` // milliseconds
	Silent    bool                 `json:"silent,omitempty"`
	Actions   []NotificationAction `json:"actions,omitempty"`
	Data      NotificationData     `json:"data"`
}

// NotificationAction is an action button as rendered by the platform.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// NotificationData is attached to a rendered notification and read back on click.
// Message is nil for notifications that do not stem from a message.
type NotificationData struct {
	Message    *Message        `json:"message,omitempty"`
	TopicRoute string          `json:"topicRoute,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// PlatformNotification is a notification currently shown by the platform.
type PlatformNotification struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Options   ShowOptions `json:"options"`
	CreatedAt time.Time   `json:"created"`
}

// Window is an open application window.
type Window struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Focused bool   `json:"focused"`
}
