package multisig

import (
	"reflect"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	amino "github.com/tendermint/go-amino"
)

// DepositEvent is emitted when value is paid into the vault.
type DepositEvent struct {
	Sender     vault.Address `json:"sender"`
	Amount     uint64        `json:"amount"`
	NewBalance uint64        `json:"newBalance"`
}

// SubmitEvent is emitted when an owner proposes a transaction.
type SubmitEvent struct {
	Submitter vault.Address `json:"submitter"`
	TxIndex   uint64        `json:"txIndex"`
	To        vault.Address `json:"to"`
	Value     uint64        `json:"value"`
	Data      []byte        `json:"data"`
}

// ApproveEvent is emitted when an owner approves a transaction.
type ApproveEvent struct {
	Owner   vault.Address `json:"owner"`
	TxIndex uint64        `json:"txIndex"`
}

// RevokeEvent is emitted when an owner withdraws an approval.
type RevokeEvent struct {
	Owner   vault.Address `json:"owner"`
	TxIndex uint64        `json:"txIndex"`
}

// ExecuteEvent is emitted when the action of a transaction succeeded.
// Executor is empty if the execution was not signed.
type ExecuteEvent struct {
	Executor vault.Address `json:"executor"`
	TxIndex  uint64        `json:"txIndex"`
}

// OwnerChangedEvent is emitted when an owner is added or removed.
type OwnerChangedEvent struct {
	Identity vault.Address `json:"identity"`
	Added    bool          `json:"added"`
}

func (DepositEvent) EventName() string      { return "deposit" }
func (SubmitEvent) EventName() string       { return "submit" }
func (ApproveEvent) EventName() string      { return "approve" }
func (RevokeEvent) EventName() string       { return "revoke" }
func (ExecuteEvent) EventName() string      { return "execute" }
func (OwnerChangedEvent) EventName() string { return "owner_changed" }

// eventTypes maps event names to their types, used to decode the log.
var eventTypes = map[string]reflect.Type{}

var eventCdc = amino.NewCodec()

func init() {
	for _, e := range []vault.Event{
		DepositEvent{},
		SubmitEvent{},
		ApproveEvent{},
		RevokeEvent{},
		ExecuteEvent{},
		OwnerChangedEvent{},
	} {
		eventTypes[e.EventName()] = reflect.TypeOf(e)
	}
}

// NewEventRecord serializes an event for storage.
func NewEventRecord(e vault.Event) (*EventRecord, error) {
	if _, ok := eventTypes[e.EventName()]; !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "unknown event %T", e)
	}
	raw, err := eventCdc.MarshalBinaryBare(e)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "cannot marshal %T: %s", e, err)
	}
	return &EventRecord{Name: e.EventName(), Payload: raw}, nil
}

// Event decodes the stored event.
func (e *EventRecord) Event() (vault.Event, error) {
	typ, ok := eventTypes[e.Name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "unknown event %q", e.Name)
	}
	ptr := reflect.New(typ)
	if len(e.Payload) == 0 {
		return ptr.Elem().Interface().(vault.Event), nil
	}
	if err := eventCdc.UnmarshalBinaryBare(e.Payload, ptr.Interface()); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "cannot unmarshal %s: %s", e.Name, err)
	}
	return ptr.Elem().Interface().(vault.Event), nil
}

// emit appends the event to the result and to the durable log. Both happen
// in the same store as the operation, so a rolled back operation leaves no
// trace of its events.
func emit(db vault.KVStore, res *vault.DeliverResult, e vault.Event) error {
	rec, err := NewEventRecord(e)
	if err != nil {
		return err
	}
	key, err := eventSeq.NextVal(db)
	if err != nil {
		return errors.Wrap(err, "event sequence")
	}
	if err := NewEventBucket().Put(db, key, rec); err != nil {
		return errors.Wrap(err, "cannot store event")
	}
	res.Events = append(res.Events, e)
	return nil
}
