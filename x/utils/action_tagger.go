package utils

import (
	"github.com/iov-one/vault"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionTagger will inspect the message being executed and
// add a tag `action = msg.Path()`. Every event emitted by the handler is
// tagged as `event = name` as well. This should be applied as a decorator
// so clients have a standard way to search / subscribe to eg. executions.
type ActionTagger struct{}

var _ vault.Decorator = ActionTagger{}

// Keys used by ActionTagger in the Tags it appends
const (
	ActionKey = "action"
	EventKey  = "event"
)

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends tags on the result if there is a success.
func (ActionTagger) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	for _, e := range res.Events {
		res.Tags = append(res.Tags, common.KVPair{
			Key:   []byte(EventKey),
			Value: []byte(e.EventName()),
		})
	}
	return res, nil
}
