package vault

// Event is a record of a state transition. Events are the only durable
// audit trail of a vault: they are returned with every DeliverResult and
// stored in the event log of the extension that emitted them.
type Event interface {
	// EventName is a short stable identifier, like "Submit".
	EventName() string
}
