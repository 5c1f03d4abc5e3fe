package multisig

import (
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/cash"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r vault.Registry, auth x.Authenticator, ctrl cash.Controller, exec Executor) {
	b := newBuckets()
	r.Handle(pathDepositMsg, DepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(pathSubmitMsg, SubmitHandler{auth: auth, b: b})
	r.Handle(pathApproveMsg, ApproveHandler{auth: auth, b: b})
	r.Handle(pathRevokeMsg, RevokeHandler{auth: auth, b: b})
	r.Handle(pathExecuteMsg, ExecuteHandler{auth: auth, b: b, exec: exec})
	r.Handle(pathAddOwnerMsg, AddOwnerHandler{auth: auth, b: b})
	r.Handle(pathRemoveOwnerMsg, RemoveOwnerHandler{auth: auth, b: b})
	r.Handle(pathSetThresholdMsg, SetThresholdHandler{auth: auth, b: b})
}

// RegisterQuery register queries from buckets in this package
func RegisterQuery(qr vault.QueryRouter) {
	b := newBuckets()
	b.registry.Register("registry", qr)
	b.owners.Register("owners", qr)
	b.txs.Register("transactions", qr)
	b.approvals.Register("approvals", qr)
	b.events.Register("events", qr)
}

type buckets struct {
	registry  orm.ModelBucket
	owners    orm.ModelBucket
	txs       orm.ModelBucket
	approvals orm.ModelBucket
	events    orm.ModelBucket
}

func newBuckets() buckets {
	return buckets{
		registry:  NewRegistryBucket(),
		owners:    NewOwnerBucket(),
		txs:       NewTransactionBucket(),
		approvals: NewApprovalBucket(),
		events:    NewEventBucket(),
	}
}

// authorizeOwner returns the address of the main signer if it is a current
// owner.
func (b buckets) authorizeOwner(ctx vault.Context, db vault.ReadOnlyKVStore, auth x.Authenticator) (vault.Address, error) {
	signer := x.AnySigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "not signed")
	}
	switch err := b.owners.Has(db, signer); {
	case err == nil:
		return signer, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", signer)
	default:
		return nil, err
	}
}

func (b buckets) isOwner(db vault.ReadOnlyKVStore, addr vault.Address) (bool, error) {
	switch err := b.owners.Has(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

func (b buckets) loadRegistry(db vault.ReadOnlyKVStore) (*Registry, error) {
	var reg Registry
	if err := b.registry.One(db, []byte(registryKey), &reg); err != nil {
		return nil, errors.Wrap(err, "registry")
	}
	return &reg, nil
}

func (b buckets) loadTransaction(db vault.ReadOnlyKVStore, index uint64) (*Transaction, error) {
	var tx Transaction
	if err := b.txs.One(db, TxKey(index), &tx); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", index)
	}
	return &tx, nil
}

// loadApproval returns the approval record. Missing records are not
// approved.
func (b buckets) loadApproval(db vault.ReadOnlyKVStore, index uint64, owner vault.Address) (*Approval, error) {
	var a Approval
	switch err := b.approvals.One(db, ApprovalKey(index, owner), &a); {
	case err == nil:
		return &a, nil
	case errors.ErrNotFound.Is(err):
		return &Approval{Owner: owner}, nil
	default:
		return nil, err
	}
}

// DepositHandler pays value from the signer into the vault.
type DepositHandler struct {
	auth x.Authenticator
	ctrl cash.Controller
}

var _ vault.Handler = DepositHandler{}

// Check verifies the signer can afford the deposit.
func (h DepositHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	msg, sender, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	have, err := h.ctrl.Balance(db, sender)
	if err != nil {
		return nil, err
	}
	if have < msg.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", have, msg.Amount)
	}
	return &vault.CheckResult{}, nil
}

// Deliver moves the amount into the vault account and emits a deposit
// event. A zero amount moves no coins but is still logged.
func (h DepositHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, sender, vaultAddr, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if msg.Amount > 0 {
		if err := h.ctrl.MoveCoins(db, sender, vaultAddr, msg.Amount); err != nil {
			return nil, errors.Wrap(err, "cannot deposit")
		}
	}
	balance, err := h.ctrl.Balance(db, vaultAddr)
	if err != nil {
		return nil, err
	}
	res := &vault.DeliverResult{}
	err = emit(db, res, DepositEvent{Sender: sender, Amount: msg.Amount, NewBalance: balance})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (h DepositHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*DepositMsg, vault.Address, vault.Address, error) {
	var msg DepositMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	sender := x.AnySigner(ctx, h.auth)
	if sender == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "not signed")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, sender, VaultAddress(conf.Name), nil
}

// SubmitHandler appends a new transaction to the ledger.
type SubmitHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vault.Handler = SubmitHandler{}

// Check verifies the signer is an owner.
func (h SubmitHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver stores the transaction under the next free index and returns
// the encoded index as the result data.
func (h SubmitHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, submitter, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// The sequence counts submitted transactions, the index is the
	// ledger length before the append.
	n, err := txSeq.NextInt(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire index")
	}
	index := uint64(n - 1)
	t := &Transaction{
		Submitter: submitter,
		To:        msg.To,
		Value:     msg.Value,
		Data:      msg.Data,
	}
	if err := h.b.txs.Put(db, TxKey(index), t); err != nil {
		return nil, errors.Wrap(err, "cannot store transaction")
	}

	res := &vault.DeliverResult{
		Data: TxKey(index),
		Log:  fmt.Sprintf("transaction %d submitted", index),
	}
	err = emit(db, res, SubmitEvent{
		Submitter: submitter,
		TxIndex:   index,
		To:        msg.To,
		Value:     msg.Value,
		Data:      msg.Data,
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (h SubmitHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*SubmitMsg, vault.Address, error) {
	var msg SubmitMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	submitter, err := h.b.authorizeOwner(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, submitter, nil
}

// ApproveHandler records an approval of a pending transaction.
type ApproveHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vault.Handler = ApproveHandler{}

// Check runs all preconditions of the approval.
func (h ApproveHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver flips the approval record and increments the approval count of
// the transaction.
func (h ApproveHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, t, approval, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	approval.Approved = true
	if err := h.b.approvals.Put(db, ApprovalKey(msg.TxIndex, approval.Owner), approval); err != nil {
		return nil, errors.Wrap(err, "cannot store approval")
	}
	t.NumApprovals++
	if err := h.b.txs.Put(db, TxKey(msg.TxIndex), t); err != nil {
		return nil, errors.Wrap(err, "cannot store transaction")
	}

	res := &vault.DeliverResult{}
	if err := emit(db, res, ApproveEvent{Owner: approval.Owner, TxIndex: msg.TxIndex}); err != nil {
		return nil, err
	}
	return res, nil
}

// validate checks in order: the signer is an owner, the transaction
// exists, it was not approved by the signer and it was not executed.
func (h ApproveHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*ApproveMsg, *Transaction, *Approval, error) {
	var msg ApproveMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.b.authorizeOwner(ctx, db, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	t, err := h.b.loadTransaction(db, msg.TxIndex)
	if err != nil {
		return nil, nil, nil, err
	}
	approval, err := h.b.loadApproval(db, msg.TxIndex, owner)
	if err != nil {
		return nil, nil, nil, err
	}
	if approval.Approved {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyApproved, "transaction %d", msg.TxIndex)
	}
	if t.Executed {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d", msg.TxIndex)
	}
	return &msg, t, approval, nil
}

// RevokeHandler withdraws an approval of a pending transaction.
type RevokeHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vault.Handler = RevokeHandler{}

// Check runs all preconditions of the revocation.
func (h RevokeHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver flips the approval record back and decrements the approval count
// of the transaction.
func (h RevokeHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, t, approval, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if t.NumApprovals == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidState, "transaction %d has no approvals", msg.TxIndex)
	}

	approval.Approved = false
	if err := h.b.approvals.Put(db, ApprovalKey(msg.TxIndex, approval.Owner), approval); err != nil {
		return nil, errors.Wrap(err, "cannot store approval")
	}
	t.NumApprovals--
	if err := h.b.txs.Put(db, TxKey(msg.TxIndex), t); err != nil {
		return nil, errors.Wrap(err, "cannot store transaction")
	}

	res := &vault.DeliverResult{}
	if err := emit(db, res, RevokeEvent{Owner: approval.Owner, TxIndex: msg.TxIndex}); err != nil {
		return nil, err
	}
	return res, nil
}

// validate checks in order: the signer is an owner, the transaction
// exists, it was not executed and the signer approved it.
func (h RevokeHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*RevokeMsg, *Transaction, *Approval, error) {
	var msg RevokeMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	owner, err := h.b.authorizeOwner(ctx, db, h.auth)
	if err != nil {
		return nil, nil, nil, err
	}
	t, err := h.b.loadTransaction(db, msg.TxIndex)
	if err != nil {
		return nil, nil, nil, err
	}
	if t.Executed {
		return nil, nil, nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d", msg.TxIndex)
	}
	approval, err := h.b.loadApproval(db, msg.TxIndex, owner)
	if err != nil {
		return nil, nil, nil, err
	}
	if !approval.Approved {
		return nil, nil, nil, errors.Wrapf(ErrNotApproved, "transaction %d", msg.TxIndex)
	}
	return &msg, t, approval, nil
}

// ExecuteHandler dispatches the action of a transaction that reached the
// quorum. Anyone may execute, the request does not even have to be signed.
type ExecuteHandler struct {
	auth x.Authenticator
	b    buckets
	exec Executor
}

var _ vault.Handler = ExecuteHandler{}

// Check runs all preconditions of the execution. The action is not
// dispatched.
func (h ExecuteHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver marks the transaction executed and dispatches its action. All
// changes are made in a cache of the given store. The cache is written
// only if the action succeeded, otherwise the transaction stays pending.
func (h ExecuteHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, t, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	cstore, ok := db.(vault.CacheableKVStore)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "execution requires a cacheable store, got %T", db)
	}

	work := cstore.CacheWrap()
	res, err := h.execute(ctx, work, msg.TxIndex, t, conf)
	if err != nil {
		work.Discard()
		vault.GetLogger(ctx).Info("execution rolled back", "index", msg.TxIndex, "err", err)
		return nil, err
	}
	if err := work.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot write execution")
	}
	return res, nil
}

func (h ExecuteHandler) execute(ctx vault.Context, db vault.KVStore, index uint64, t *Transaction, conf *Configuration) (*vault.DeliverResult, error) {
	// The executed flag must be stored before the action is dispatched.
	t.Executed = true
	if err := h.b.txs.Put(db, TxKey(index), t); err != nil {
		return nil, errors.Wrap(err, "cannot store transaction")
	}

	action := Action{
		TxIndex: index,
		From:    VaultAddress(conf.Name),
		To:      t.To,
		Value:   t.Value,
		Data:    t.Data,
	}
	if err := h.exec.Execute(ctx, db, action); err != nil {
		return nil, errors.Wrapf(ErrCallFailed, "transaction %d: %s", index, err)
	}

	res := &vault.DeliverResult{
		Data: TxKey(index),
		Log:  fmt.Sprintf("transaction %d executed", index),
	}
	executor := x.AnySigner(ctx, h.auth)
	if err := emit(db, res, ExecuteEvent{Executor: executor, TxIndex: index}); err != nil {
		return nil, err
	}
	return res, nil
}

// validate checks in order: the transaction exists, it was not executed
// and it has enough approvals.
func (h ExecuteHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*ExecuteMsg, *Transaction, error) {
	var msg ExecuteMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	t, err := h.b.loadTransaction(db, msg.TxIndex)
	if err != nil {
		return nil, nil, err
	}
	if t.Executed {
		return nil, nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d", msg.TxIndex)
	}
	reg, err := h.b.loadRegistry(db)
	if err != nil {
		return nil, nil, err
	}
	if t.NumApprovals < reg.ApprovalsRequired {
		return nil, nil, errors.Wrapf(ErrInsufficientApprovals,
			"transaction %d has %d of %d", msg.TxIndex, t.NumApprovals, reg.ApprovalsRequired)
	}
	return &msg, t, nil
}

// AddOwnerHandler adds a new owner.
type AddOwnerHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vault.Handler = AddOwnerHandler{}

// Check runs all preconditions of adding an owner.
func (h AddOwnerHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver makes the identity an owner and overwrites the threshold. An
// identity that was an owner before keeps its single roster entry.
func (h AddOwnerHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, reg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if !reg.Listed(msg.Owner) {
		reg.Roster = append(reg.Roster, msg.Owner)
	}
	reg.ApprovalsRequired = msg.ApprovalsRequired
	if err := h.b.registry.Put(db, []byte(registryKey), reg); err != nil {
		return nil, errors.Wrap(err, "cannot store registry")
	}
	if err := h.b.owners.Put(db, msg.Owner, &Owner{Address: msg.Owner}); err != nil {
		return nil, errors.Wrap(err, "cannot store owner")
	}

	res := &vault.DeliverResult{}
	if err := emit(db, res, OwnerChangedEvent{Identity: msg.Owner, Added: true}); err != nil {
		return nil, err
	}
	return res, nil
}

// validate checks in order: the signer is an owner, the new identity is
// valid and not an owner yet, the threshold is not zero.
func (h AddOwnerHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*AddOwnerMsg, *Registry, error) {
	var msg AddOwnerMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.b.authorizeOwner(ctx, db, h.auth); err != nil {
		return nil, nil, err
	}
	if err := msg.Owner.Validate(); err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidOwner, "identity: %s", err)
	}
	switch member, err := h.b.isOwner(db, msg.Owner); {
	case err != nil:
		return nil, nil, err
	case member:
		return nil, nil, errors.Wrapf(ErrInvalidOwner, "%s is already an owner", msg.Owner)
	}
	if msg.ApprovalsRequired == 0 {
		return nil, nil, errors.Wrap(ErrInvalidThreshold, "zero approvals required")
	}
	reg, err := h.b.loadRegistry(db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, reg, nil
}

// RemoveOwnerHandler removes an owner.
type RemoveOwnerHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vault.Handler = RemoveOwnerHandler{}

// Check runs all preconditions of removing an owner.
func (h RemoveOwnerHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver revokes the membership and overwrites the threshold. The roster
// entry and the approvals given by the identity are kept.
func (h RemoveOwnerHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, reg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	reg.ApprovalsRequired = msg.ApprovalsRequired
	if err := h.b.registry.Put(db, []byte(registryKey), reg); err != nil {
		return nil, errors.Wrap(err, "cannot store registry")
	}
	if err := h.b.owners.Delete(db, msg.Owner); err != nil {
		return nil, errors.Wrap(err, "cannot delete owner")
	}

	res := &vault.DeliverResult{}
	if err := emit(db, res, OwnerChangedEvent{Identity: msg.Owner, Added: false}); err != nil {
		return nil, err
	}
	return res, nil
}

// validate checks in order: the signer is an owner, the identity is an
// owner, the threshold is not zero.
func (h RemoveOwnerHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*RemoveOwnerMsg, *Registry, error) {
	var msg RemoveOwnerMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.b.authorizeOwner(ctx, db, h.auth); err != nil {
		return nil, nil, err
	}
	switch member, err := h.b.isOwner(db, msg.Owner); {
	case err != nil:
		return nil, nil, err
	case !member:
		return nil, nil, errors.Wrapf(ErrInvalidOwner, "%s is not an owner", msg.Owner)
	}
	if msg.ApprovalsRequired == 0 {
		return nil, nil, errors.Wrap(ErrInvalidThreshold, "zero approvals required")
	}
	reg, err := h.b.loadRegistry(db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, reg, nil
}

// SetThresholdHandler changes the number of approvals required.
type SetThresholdHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vault.Handler = SetThresholdHandler{}

// Check runs all preconditions of the threshold change.
func (h SetThresholdHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{}, nil
}

// Deliver overwrites the threshold. It is not compared with the number of
// current owners.
func (h SetThresholdHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, reg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	reg.ApprovalsRequired = msg.ApprovalsRequired
	if err := h.b.registry.Put(db, []byte(registryKey), reg); err != nil {
		return nil, errors.Wrap(err, "cannot store registry")
	}
	return &vault.DeliverResult{}, nil
}

func (h SetThresholdHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*SetThresholdMsg, *Registry, error) {
	var msg SetThresholdMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.b.authorizeOwner(ctx, db, h.auth); err != nil {
		return nil, nil, err
	}
	if msg.ApprovalsRequired == 0 {
		return nil, nil, errors.Wrap(ErrInvalidThreshold, "zero approvals required")
	}
	reg, err := h.b.loadRegistry(db)
	if err != nil {
		return nil, nil, err
	}
	return &msg, reg, nil
}
