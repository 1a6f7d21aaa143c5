package notify

import (
	"testing"

	"github.com/go-push-worker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag_UsesSequenceKey(t *testing.T) {
	assert.Equal(t, "https://ntfy.sh/news/abc", Tag("https://ntfy.sh/", "news", "abc"))
}

func TestTopicRoute(t *testing.T) {
	assert.Equal(t, "https://app.example.com/news", TopicRoute("https://app.example.com", "news"))
	assert.Equal(t, "https://app.example.com/news", TopicRoute("https://app.example.com/", "news"))
}

func TestRootURL(t *testing.T) {
	assert.Equal(t, "https://app.example.com/", RootURL("https://app.example.com"))
}

func TestBuild_DefaultsTitleAndCarriesData(t *testing.T) {
	m := &domain.Message{
		ID:         "m1",
		Time:       1700000000,
		Topic:      "news",
		Message:    "hello",
		SequenceID: "s1",
		Actions:    []domain.Action{{Action: domain.ActionView, Label: "Open", URL: "https://example.com"}},
	}
	title, opts := Build(Params{
		Message:      m,
		DefaultTitle: "news",
		TopicRoute:   "https://app.example.com/news",
		BaseURL:      "https://ntfy.sh",
		Topic:        "news",
		Icon:         "/icon.png",
		Badge:        "/badge.svg",
	})
	assert.Equal(t, "news", title)
	assert.Equal(t, "hello", opts.Body)
	assert.Equal(t, "/icon.png", opts.Icon)
	assert.Equal(t, "/badge.svg", opts.Badge)
	assert.Equal(t, "https://ntfy.sh/news/s1", opts.Tag)
	assert.Equal(t, int64(1700000000000), opts.Timestamp)
	require.Len(t, opts.Actions, 1)
	assert.Equal(t, "Open", opts.Actions[0].Action)
	assert.Same(t, m, opts.Data.Message)
	assert.Equal(t, "https://app.example.com/news", opts.Data.TopicRoute)
}

func TestBuild_ExplicitTitleAndAttachmentBody(t *testing.T) {
	m := &domain.Message{
		ID:         "m1",
		Topic:      "news",
		Title:      "Breaking",
		Priority:   1,
		Attachment: &domain.Attachment{Name: "report.pdf", URL: "https://ntfy.sh/file/x"},
	}
	title, opts := Build(Params{Message: m, DefaultTitle: "news", BaseURL: "https://ntfy.sh", Topic: "news"})
	assert.Equal(t, "Breaking", title)
	assert.Equal(t, "report.pdf", opts.Body)
	assert.True(t, opts.Silent)
	assert.Equal(t, "https://ntfy.sh/news/m1", opts.Tag)
}
