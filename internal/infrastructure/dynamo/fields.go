package dynamo

// DynamoDB attribute names shared by the repos and Bootstrap.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldSubscriptionID = "subscription_id"
	fieldSequenceID     = "sequence_id"
	fieldLast           = "last"
	fieldNew            = "new"
)
