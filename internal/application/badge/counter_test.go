package badge

import (
	"context"
	"errors"
	"testing"

	"github.com/go-push-worker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCounter struct{ mock.Mock }

func (m *mockCounter) CountUnread(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) SetBadgeCount(ctx context.Context, n int) error {
	return m.Called(ctx, n).Error(0)
}

func TestRefresh_PublishesCount(t *testing.T) {
	store, pub := &mockCounter{}, &mockPublisher{}
	store.On("CountUnread", mock.Anything).Return(3, nil)
	pub.On("SetBadgeCount", mock.Anything, 3).Return(nil)

	n, err := NewCounter(store, pub).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	pub.AssertExpectations(t)
}

func TestRefresh_CountFailureIsStoreUnavailable(t *testing.T) {
	store, pub := &mockCounter{}, &mockPublisher{}
	store.On("CountUnread", mock.Anything).Return(0, errors.New("throttled"))

	_, err := NewCounter(store, pub).Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	pub.AssertNotCalled(t, "SetBadgeCount", mock.Anything, mock.Anything)
}

func TestRefresh_PublishFailureIsIgnored(t *testing.T) {
	store, pub := &mockCounter{}, &mockPublisher{}
	store.On("CountUnread", mock.Anything).Return(1, nil)
	pub.On("SetBadgeCount", mock.Anything, 1).Return(errors.New("unsupported"))

	n, err := NewCounter(store, pub).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
