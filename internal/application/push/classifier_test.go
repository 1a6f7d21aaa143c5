package push

import (
	"testing"

	"github.com/go-push-worker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	msg := func(event string) *domain.Message { return &domain.Message{ID: "m1", Event: event, Topic: "t"} }

	tests := []struct {
		name string
		in   *domain.PushPayload
		want Kind
	}{
		{"message", &domain.PushPayload{Event: "message", SubscriptionID: "s", Message: msg("message")}, KindMessage},
		{"deleted", &domain.PushPayload{Event: "message", SubscriptionID: "s", Message: msg("message_deleted")}, KindMessageDeleted},
		{"delete wire name", &domain.PushPayload{Event: "message", SubscriptionID: "s", Message: msg("message_delete")}, KindMessageDeleted},
		{"cleared", &domain.PushPayload{Event: "message", SubscriptionID: "s", Message: msg("message_cleared")}, KindMessageCleared},
		{"clear wire name", &domain.PushPayload{Event: "message", SubscriptionID: "s", Message: msg("message_clear")}, KindMessageCleared},
		{"expiring", &domain.PushPayload{Event: "subscription_expiring"}, KindSubscriptionExpiring},
		{"missing message", &domain.PushPayload{Event: "message", SubscriptionID: "s"}, KindUnknown},
		{"missing subscription", &domain.PushPayload{Event: "message", Message: msg("message")}, KindUnknown},
		{"unknown message event", &domain.PushPayload{Event: "message", SubscriptionID: "s", Message: msg("poll_request")}, KindUnknown},
		{"unknown event", &domain.PushPayload{Event: "keepalive"}, KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.in))
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestDecode(t *testing.T) {
	p, err := Decode([]byte(`{"event":"message","subscription_id":"s1","message":{"id":"m1","event":"message","topic":"alerts","sequence_id":"q1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "s1", p.SubscriptionID)
	require.NotNil(t, p.Message)
	assert.Equal(t, "q1", p.Message.SequenceID)
	assert.Equal(t, KindMessage, Classify(p))
}
