package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/go-push-worker/internal/domain"
	"github.com/go-push-worker/internal/infrastructure/broadcast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan broadcast.Event) []string {
	var types []string
	for {
		select {
		case ev := <-ch:
			types = append(types, ev.Type)
		default:
			return types
		}
	}
}

func TestShowAndQueryByTag(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), nil)
	ctx := context.Background()

	_, err := s.ShowNotification(ctx, "a", domain.ShowOptions{Tag: "t1"})
	require.NoError(t, err)
	_, err = s.ShowNotification(ctx, "b", domain.ShowOptions{Tag: "t2"})
	require.NoError(t, err)

	got, err := s.QueryNotifications(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)

	none, err := s.QueryNotifications(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestShow_SameTagReplaces(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), nil)
	ctx := context.Background()

	_, ev, dc := s.ConnectWindow("https://app/")
	defer dc()

	old, _ := s.ShowNotification(ctx, "old", domain.ShowOptions{Tag: "t1"})
	_, _ = s.ShowNotification(ctx, "new", domain.ShowOptions{Tag: "t1"})

	got, _ := s.QueryNotifications(ctx, "t1")
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Title)

	all, _ := s.QueryNotifications(ctx, "")
	assert.Len(t, all, 1)
	_, err := s.GetNotification(ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{EventNotification, EventClose, EventNotification}, drain(ev))
}

func TestShow_ReplaceClosesPreviousID(t *testing.T) {
	hub := broadcast.NewHub()
	s := NewSurface(hub, nil)
	ctx := context.Background()
	_, ev, dc := s.ConnectWindow("https://app/")
	defer dc()

	old, _ := s.ShowNotification(ctx, "old", domain.ShowOptions{Tag: "t1"})
	<-ev
	_, _ = s.ShowNotification(ctx, "new", domain.ShowOptions{Tag: "t1"})

	closed := <-ev
	assert.Equal(t, EventClose, closed.Type)
	assert.Equal(t, map[string]string{"id": old.ID}, closed.Data)
}

func TestShow_RegistryDropsOldestPastLimit(t *testing.T) {
	s := NewSurfaceWithLimit(broadcast.NewHub(), nil, 3)
	ctx := context.Background()

	var ids []string
	for _, tag := range []string{"a", "b", "c", "d", "e"} {
		n, err := s.ShowNotification(ctx, tag, domain.ShowOptions{Tag: tag})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}

	all, err := s.QueryNotifications(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "d", "e"}, []string{all[0].Title, all[1].Title, all[2].Title})

	_, err = s.GetNotification(ctx, ids[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	gone, _ := s.QueryNotifications(ctx, "b")
	assert.Empty(t, gone)
}

func TestShow_UntaggedNotificationsAreBounded(t *testing.T) {
	s := NewSurfaceWithLimit(broadcast.NewHub(), nil, 2)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, _ = s.ShowNotification(ctx, "x", domain.ShowOptions{})
	}
	all, _ := s.QueryNotifications(ctx, "")
	assert.Len(t, all, 2)
}

func TestCloseNotification(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), nil)
	ctx := context.Background()
	n, _ := s.ShowNotification(ctx, "a", domain.ShowOptions{Tag: "t1"})

	require.NoError(t, s.CloseNotification(ctx, n.ID))
	require.NoError(t, s.CloseNotification(ctx, n.ID))

	_, err := s.GetNotification(ctx, n.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWindows_FocusAndNavigate(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), nil)
	ctx := context.Background()
	w1, ev1, dc1 := s.ConnectWindow("https://app/")
	defer dc1()
	w2, ev2, dc2 := s.ConnectWindow("https://app/news")
	defer dc2()

	windows, _ := s.ListOpenWindows(ctx)
	require.Len(t, windows, 2)
	assert.Equal(t, w1.ID, windows[0].ID)

	require.NoError(t, s.FocusWindow(ctx, w2.ID))
	require.NoError(t, s.NavigateWindow(ctx, w2.ID, "https://app/sports"))

	windows, _ = s.ListOpenWindows(ctx)
	assert.False(t, windows[0].Focused)
	assert.True(t, windows[1].Focused)
	assert.Equal(t, "https://app/sports", windows[1].URL)
	assert.Empty(t, drain(ev1))
	assert.Equal(t, []string{EventFocus, EventNavigate}, drain(ev2))
}

func TestWindows_DisconnectRemoves(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), nil)
	w, _, dc := s.ConnectWindow("https://app/")
	dc()

	windows, _ := s.ListOpenWindows(context.Background())
	assert.Empty(t, windows)
	assert.ErrorIs(t, s.FocusWindow(context.Background(), w.ID), domain.ErrNotFound)
}

func TestOpenWindow_UsesConnectedWindow(t *testing.T) {
	opened := 0
	s := NewSurface(broadcast.NewHub(), func(string) error { opened++; return nil })
	_, ev, dc := s.ConnectWindow("https://app/")
	defer dc()

	require.NoError(t, s.OpenWindow(context.Background(), "https://example.com"))
	assert.Equal(t, []string{EventOpen}, drain(ev))
	assert.Zero(t, opened)
}

func TestOpenWindow_FallsBackToOpener(t *testing.T) {
	var url string
	s := NewSurface(broadcast.NewHub(), func(u string) error { url = u; return nil })

	require.NoError(t, s.OpenWindow(context.Background(), "https://example.com"))
	assert.Equal(t, "https://example.com", url)
}

func TestOpenWindow_NoWindowNoOpener(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), nil)
	assert.Error(t, s.OpenWindow(context.Background(), "https://example.com"))
}

func TestOpenWindow_OpenerError(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), func(string) error { return errors.New("no display") })
	assert.ErrorContains(t, s.OpenWindow(context.Background(), "https://example.com"), "no display")
}

func TestClaimWindows_AppliesToLateWindows(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), nil)
	require.NoError(t, s.ClaimWindows(context.Background()))

	_, ev, dc := s.ConnectWindow("https://app/")
	defer dc()
	assert.Equal(t, []string{EventClaim}, drain(ev))
}

func TestBadgeCount(t *testing.T) {
	s := NewSurface(broadcast.NewHub(), nil)
	require.NoError(t, s.SetBadgeCount(context.Background(), 4))
	assert.Equal(t, 4, s.BadgeCount())
}
