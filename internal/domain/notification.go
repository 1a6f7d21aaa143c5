package domain

// ReadState marks whether a stored notification has been seen.
type ReadState uint8

const (
	Unread ReadState = iota + 1
	Read
)

func (s ReadState) String() string {
	switch s {
	case Unread:
		return "unread"
	case Read:
		return "read"
	default:
		return "unknown"
	}
}

// Notification is one message surfaced to the user, scoped to a Subscription.
// For a given SubscriptionID at most one Notification exists per SequenceID.
type Notification struct {
	SubscriptionID string    `json:"subscription_id"`
	SequenceID     string    `json:"sequence_id,omitempty"`
	State          ReadState `json:"state"`
	Message        Message   `json:"message"`
}
