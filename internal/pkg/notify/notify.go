// Package notify derives the rendering parameters of platform notifications
// from messages: composite tags, topic routes and ShowOptions.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-push-worker/internal/domain"
)

// Tag builds the composite tag that identifies the rendered notification of
// a message, so later delete/clear events can withdraw it.
func Tag(baseURL, topic, sequenceKey string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(baseURL, "/"), topic, sequenceKey)
}

// RootURL is the root route of the web app.
func RootURL(origin string) string {
	return strings.TrimSuffix(origin, "/") + "/"
}

// TopicRoute resolves the in-app route of topic against origin.
func TopicRoute(origin, topic string) string {
	base, err := url.Parse(RootURL(origin))
	if err != nil {
		return RootURL(origin) + topic
	}
	ref, err := url.Parse(topic)
	if err != nil {
		return RootURL(origin) + url.PathEscape(topic)
	}
	return base.ResolveReference(ref).String()
}

// Params are the inputs of Build.
type Params struct {
	Message      *domain.Message
	DefaultTitle string
	TopicRoute   string
	BaseURL      string
	Topic        string
	Icon         string
	Badge        string
}

// Build returns the title and options used to render a message.
func Build(p Params) (string, domain.ShowOptions) {
	m := p.Message
	title := m.Title
	if title == "" {
		title = p.DefaultTitle
	}
	body := m.Message
	if body == "" && m.Attachment != nil {
		body = m.Attachment.Name
	}
	icon := p.Icon
	if m.Icon != "" {
		icon = m.Icon
	}
	var actions []domain.NotificationAction
	for _, a := range m.Actions {
		actions = append(actions, domain.NotificationAction{Action: a.Label, Title: a.Label})
	}
	return title, domain.ShowOptions{
		Body:      body,
		Icon:      icon,
		Badge:     p.Badge,
		Tag:       Tag(p.BaseURL, p.Topic, m.SequenceKey()),
		Timestamp: m.Time * 1000,
		Silent:    m.Priority == 1,
		Actions:   actions,
		Data: domain.NotificationData{
			Message:    m,
			TopicRoute: p.TopicRoute,
		},
	}
}
