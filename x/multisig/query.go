package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x/cash"
)

// Reader provides the read surface of the vault. It never modifies the
// store.
type Reader struct {
	b    buckets
	cash cash.Controller
}

// NewReader returns a reader using given controller to read the vault
// balance.
func NewReader(ctrl cash.Controller) Reader {
	return Reader{b: newBuckets(), cash: ctrl}
}

// Roster returns every identity that was ever an owner, in the order they
// were first added.
func (r Reader) Roster(db vault.ReadOnlyKVStore) ([]vault.Address, error) {
	reg, err := r.b.loadRegistry(db)
	if err != nil {
		return nil, err
	}
	return reg.Roster, nil
}

// IsOwner returns true if given identity is a current owner.
func (r Reader) IsOwner(db vault.ReadOnlyKVStore, addr vault.Address) (bool, error) {
	return r.b.isOwner(db, addr)
}

// Owners returns the current owners in roster order.
func (r Reader) Owners(db vault.ReadOnlyKVStore) ([]vault.Address, error) {
	roster, err := r.Roster(db)
	if err != nil {
		return nil, err
	}
	var owners []vault.Address
	for _, a := range roster {
		ok, err := r.b.isOwner(db, a)
		if err != nil {
			return nil, err
		}
		if ok {
			owners = append(owners, a)
		}
	}
	return owners, nil
}

// ApprovalsRequired returns the current threshold.
func (r Reader) ApprovalsRequired(db vault.ReadOnlyKVStore) (uint32, error) {
	reg, err := r.b.loadRegistry(db)
	if err != nil {
		return 0, err
	}
	return reg.ApprovalsRequired, nil
}

// Transaction returns the ledger entry with given index.
func (r Reader) Transaction(db vault.ReadOnlyKVStore, index uint64) (*Transaction, error) {
	return r.b.loadTransaction(db, index)
}

// LedgerEntry is a transaction together with its index.
type LedgerEntry struct {
	Index uint64 `json:"index"`
	*Transaction
}

// Transactions returns the whole ledger ordered by index.
func (r Reader) Transactions(db vault.ReadOnlyKVStore) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := r.b.txs.Iterate(db, nil, func(key []byte, m orm.Model) error {
		t, ok := m.(*Transaction)
		if !ok {
			return errors.Wrapf(errors.ErrInvalidType, "%T", m)
		}
		entries = append(entries, LedgerEntry{Index: uint64(orm.DecodeSequence(key)), Transaction: t})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// TransactionCount returns the number of submitted transactions.
func (r Reader) TransactionCount(db vault.ReadOnlyKVStore) (uint64, error) {
	n, err := txSeq.Latest(db)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// IsApproved returns the approval flag of given owner on given transaction.
// It is false for identities that never voted and for unknown
// transactions.
func (r Reader) IsApproved(db vault.ReadOnlyKVStore, index uint64, owner vault.Address) (bool, error) {
	a, err := r.b.loadApproval(db, index, owner)
	if err != nil {
		return false, err
	}
	return a.Approved, nil
}

// Approvers returns every identity whose approval of given transaction is
// currently recorded, including removed owners.
func (r Reader) Approvers(db vault.ReadOnlyKVStore, index uint64) ([]vault.Address, error) {
	var approvers []vault.Address
	err := r.b.approvals.Iterate(db, TxKey(index), func(_ []byte, m orm.Model) error {
		a, ok := m.(*Approval)
		if !ok {
			return errors.Wrapf(errors.ErrInvalidType, "%T", m)
		}
		if a.Approved {
			approvers = append(approvers, a.Owner)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approvers, nil
}

// Balance returns the amount held by the vault.
func (r Reader) Balance(db vault.ReadOnlyKVStore) (uint64, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	return r.cash.Balance(db, VaultAddress(conf.Name))
}

// Events returns the event log in emission order.
func (r Reader) Events(db vault.ReadOnlyKVStore) ([]vault.Event, error) {
	var events []vault.Event
	err := r.b.events.Iterate(db, nil, func(_ []byte, m orm.Model) error {
		rec, ok := m.(*EventRecord)
		if !ok {
			return errors.Wrapf(errors.ErrInvalidType, "%T", m)
		}
		e, err := rec.Event()
		if err != nil {
			return err
		}
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// HistoryEntry describes an executed transaction.
type HistoryEntry struct {
	Index uint64        `json:"index"`
	Owner vault.Address `json:"owner"`
	To    vault.Address `json:"to"`
	Value uint64        `json:"value"`
	Data  []byte        `json:"data"`
}

// History returns every executed transaction ordered by index. The owner
// is the identity that submitted the transaction.
func (r Reader) History(db vault.ReadOnlyKVStore) ([]HistoryEntry, error) {
	entries, err := r.Transactions(db)
	if err != nil {
		return nil, err
	}
	var hist []HistoryEntry
	for _, e := range entries {
		if !e.Executed {
			continue
		}
		hist = append(hist, HistoryEntry{
			Index: e.Index,
			Owner: e.Submitter,
			To:    e.To,
			Value: e.Value,
			Data:  e.Data,
		})
	}
	return hist, nil
}
