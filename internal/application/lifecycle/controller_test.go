package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClaimer struct{ mock.Mock }

func (m *mockClaimer) ClaimWindows(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPurger struct{ mock.Mock }

func (m *mockPurger) PurgeOutdated(ctx context.Context, version string) (int, error) {
	args := m.Called(ctx, version)
	return args.Int(0), args.Error(1)
}

func TestInstall_ActivatesImmediately(t *testing.T) {
	c := NewController(&mockClaimer{}, nil, "v2")
	assert.Equal(t, StateNew, c.State())

	require.NoError(t, c.Install(context.Background()))
	assert.Equal(t, StateActive, c.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "new", StateNew.String())
	assert.Equal(t, "active", StateActive.String())
}

func TestActivate_ClaimsAndPurges(t *testing.T) {
	cl, pu := &mockClaimer{}, &mockPurger{}
	cl.On("ClaimWindows", mock.Anything).Return(nil)
	pu.On("PurgeOutdated", mock.Anything, "v2").Return(4, nil)

	c := NewController(cl, pu, "v2")
	require.NoError(t, c.Activate(context.Background()))

	cl.AssertExpectations(t)
	pu.AssertExpectations(t)
	assert.Equal(t, StateActive, c.State())
}

func TestActivate_PurgeFailureIsNotFatal(t *testing.T) {
	cl, pu := &mockClaimer{}, &mockPurger{}
	cl.On("ClaimWindows", mock.Anything).Return(nil)
	pu.On("PurgeOutdated", mock.Anything, "v2").Return(0, errors.New("access denied"))

	assert.NoError(t, NewController(cl, pu, "v2").Activate(context.Background()))
}

func TestActivate_ClaimFailure(t *testing.T) {
	cl := &mockClaimer{}
	cl.On("ClaimWindows", mock.Anything).Return(errors.New("boom"))

	err := NewController(cl, nil, "v2").Activate(context.Background())
	assert.ErrorContains(t, err, "claim windows")
}

func TestActivate_WithoutPurger(t *testing.T) {
	cl := &mockClaimer{}
	cl.On("ClaimWindows", mock.Anything).Return(nil)

	assert.NoError(t, NewController(cl, nil, "v2").Activate(context.Background()))
}
