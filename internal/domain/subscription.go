package domain

// Subscription is a client's subscription to one topic on one server.
// At most one exists per (BaseURL, Topic); the foreground app creates it,
// push handlers only ever move Last forward.
type Subscription struct {
	ID      string `json:"id" dynamodbav:"subscription_id"`
	BaseURL string `json:"base_url" dynamodbav:"base_url"`
	Topic   string `json:"topic" dynamodbav:"topic"`
	Last    string `json:"last,omitempty" dynamodbav:"last"` // id of the last processed message, for ?since= catch-up
}

// PutSubscriptionRequest registers a subscription created by the foreground app.
type PutSubscriptionRequest struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	Topic   string `json:"topic" validate:"required,max=64"`
}
