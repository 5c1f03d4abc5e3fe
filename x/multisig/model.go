package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// Registry is the singleton holding the owner roster and the quorum size.
type Registry struct {
	// Roster lists every identity that was ever an owner, in the order
	// they were added. Removed owners are not excised.
	Roster []vault.Address
	// ApprovalsRequired is the number of approvals needed to execute a
	// transaction.
	ApprovalsRequired uint32
}

var _ orm.Model = (*Registry)(nil)

// Validate ensures the registry holds a positive threshold and a roster of
// unique, valid identities.
func (r *Registry) Validate() error {
	if r.ApprovalsRequired == 0 {
		return errors.Wrap(ErrInvalidThreshold, "approvals required")
	}
	seen := make(map[string]struct{}, len(r.Roster))
	for i, a := range r.Roster {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidOwner, "roster %d: %s", i, err)
		}
		if _, ok := seen[string(a)]; ok {
			return errors.Wrapf(ErrInvalidOwner, "roster %d: duplicate %s", i, a)
		}
		seen[string(a)] = struct{}{}
	}
	return nil
}

// Copy returns a deep copy of the registry.
func (r *Registry) Copy() orm.Model {
	roster := make([]vault.Address, len(r.Roster))
	for i, a := range r.Roster {
		roster[i] = append(vault.Address(nil), a...)
	}
	return &Registry{Roster: roster, ApprovalsRequired: r.ApprovalsRequired}
}

// Listed returns true if given identity is on the roster.
func (r *Registry) Listed(addr vault.Address) bool {
	for _, a := range r.Roster {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// Owner is stored for every current owner. Removal deletes the entity.
type Owner struct {
	Address vault.Address
}

var _ orm.Model = (*Owner)(nil)

// Validate ensures the owner identity is not null.
func (o *Owner) Validate() error {
	if err := o.Address.Validate(); err != nil {
		return errors.Wrap(ErrInvalidOwner, err.Error())
	}
	return nil
}

// Copy returns a deep copy of the owner.
func (o *Owner) Copy() orm.Model {
	return &Owner{Address: append(vault.Address(nil), o.Address...)}
}

// Transaction is a proposed action tracked through approval and execution.
type Transaction struct {
	// Submitter is the owner that proposed this transaction.
	Submitter vault.Address
	// To is the target of the action. It may be empty for pure signal
	// proposals.
	To vault.Address
	// Value is the amount moved from the vault to the target.
	Value uint64
	// Data is an opaque payload delivered to the target.
	Data []byte
	// Executed is set once the action was successfully dispatched.
	Executed bool
	// NumApprovals is the number of owners that currently approve this
	// transaction.
	NumApprovals uint32
}

var _ orm.Model = (*Transaction)(nil)

// Validate ensures the transaction references valid identities.
func (t *Transaction) Validate() error {
	if err := t.Submitter.Validate(); err != nil {
		return errors.Wrap(err, "submitter")
	}
	if len(t.To) != 0 {
		if err := t.To.Validate(); err != nil {
			return errors.Wrap(err, "to")
		}
	}
	return nil
}

// Copy returns a deep copy of the transaction.
func (t *Transaction) Copy() orm.Model {
	cpy := *t
	cpy.Submitter = append(vault.Address(nil), t.Submitter...)
	cpy.To = append(vault.Address(nil), t.To...)
	cpy.Data = append([]byte(nil), t.Data...)
	return &cpy
}

// Approval is the vote of a single owner on a single transaction. Records
// are never deleted, only flipped.
type Approval struct {
	Owner    vault.Address
	Approved bool
}

var _ orm.Model = (*Approval)(nil)

// Validate ensures the approval belongs to a valid identity.
func (a *Approval) Validate() error {
	return errors.Wrap(a.Owner.Validate(), "owner")
}

// Copy returns a deep copy of the approval.
func (a *Approval) Copy() orm.Model {
	return &Approval{Owner: append(vault.Address(nil), a.Owner...), Approved: a.Approved}
}

// EventRecord is the stored form of an emitted event.
type EventRecord struct {
	Name    string
	Payload []byte
}

var _ orm.Model = (*EventRecord)(nil)

// Validate ensures the record can be decoded back into an event.
func (e *EventRecord) Validate() error {
	if _, ok := eventTypes[e.Name]; !ok {
		return errors.Wrapf(errors.ErrInvalidModel, "unknown event %q", e.Name)
	}
	return nil
}

// Copy returns a deep copy of the record.
func (e *EventRecord) Copy() orm.Model {
	return &EventRecord{Name: e.Name, Payload: append([]byte(nil), e.Payload...)}
}

const registryKey = "vault"

var (
	txSeq    = orm.NewSequence("txs", orm.SeqID)
	eventSeq = orm.NewSequence("events", orm.SeqID)
)

// NewRegistryBucket returns a bucket holding the registry singleton.
func NewRegistryBucket() orm.ModelBucket {
	return orm.NewModelBucket("registry", &Registry{})
}

// NewOwnerBucket returns a bucket holding current owners, keyed by address.
func NewOwnerBucket() orm.ModelBucket {
	return orm.NewModelBucket("owners", &Owner{})
}

// NewTransactionBucket returns a bucket holding the ledger, keyed by the
// encoded transaction index.
func NewTransactionBucket() orm.ModelBucket {
	return orm.NewModelBucket("txs", &Transaction{})
}

// NewApprovalBucket returns a bucket holding approval records, keyed by
// the encoded transaction index followed by the owner address.
func NewApprovalBucket() orm.ModelBucket {
	return orm.NewModelBucket("approvals", &Approval{})
}

// NewEventBucket returns a bucket holding the event log, keyed by the
// encoded emission order.
func NewEventBucket() orm.ModelBucket {
	return orm.NewModelBucket("events", &EventRecord{})
}

// TxKey returns the ledger key of the transaction with given index.
func TxKey(index uint64) []byte {
	return orm.EncodeSequence(int64(index))
}

// ApprovalKey returns the key of the approval record of given owner on the
// transaction with given index.
func ApprovalKey(index uint64, owner vault.Address) []byte {
	return append(TxKey(index), owner...)
}

// VaultCondition returns the condition that controls the funds of the vault
// with given name.
func VaultCondition(name string) vault.Condition {
	return vault.NewCondition("multisig", "vault", []byte(name))
}

// VaultAddress returns the address holding the funds of the vault with
// given name.
func VaultAddress(name string) vault.Address {
	return VaultCondition(name).Address()
}
