package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
)

// Action is the effect of an executed transaction.
type Action struct {
	// TxIndex is the index of the executed transaction.
	TxIndex uint64
	// From is the vault account the value is paid from.
	From vault.Address
	// To is the target of the action.
	To vault.Address
	// Value is the amount to pay.
	Value uint64
	// Data is the payload delivered to the target.
	Data []byte
}

// Executor dispatches actions of executed transactions. It receives the
// store of the execution, so every change it makes is rolled back together
// with the execution when it returns an error.
type Executor interface {
	Execute(ctx vault.Context, db vault.KVStore, action Action) error
}

// Callee is a registered target that receives the payload of an action.
type Callee interface {
	Call(ctx vault.Context, db vault.KVStore, action Action) error
}

// CalleeFunc adapts a function to the Callee interface.
type CalleeFunc func(ctx vault.Context, db vault.KVStore, action Action) error

// Call implements Callee.
func (fn CalleeFunc) Call(ctx vault.Context, db vault.KVStore, action Action) error {
	return fn(ctx, db, action)
}

// CashExecutor is the default Executor. It pays the value from the vault
// to the target and delivers a non empty payload to the callee registered
// for the target.
type CashExecutor struct {
	ctrl    cash.Controller
	callees map[string]Callee
}

var _ Executor = (*CashExecutor)(nil)

// NewCashExecutor returns an executor moving value with given controller.
func NewCashExecutor(ctrl cash.Controller) *CashExecutor {
	return &CashExecutor{
		ctrl:    ctrl,
		callees: make(map[string]Callee),
	}
}

// Register sets the callee receiving payloads sent to given address.
func (e *CashExecutor) Register(target vault.Address, c Callee) *CashExecutor {
	e.callees[string(target)] = c
	return e
}

// Execute pays the value first and calls the target afterwards, so the
// callee can already spend what it was sent.
func (e *CashExecutor) Execute(ctx vault.Context, db vault.KVStore, action Action) error {
	if action.Value > 0 {
		if err := e.ctrl.MoveCoins(db, action.From, action.To, action.Value); err != nil {
			return errors.Wrap(err, "cannot pay")
		}
	}
	if len(action.Data) == 0 {
		return nil
	}
	callee, ok := e.callees[string(action.To)]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "no callee for %s", action.To)
	}
	return callee.Call(vault.WithCallDepth(ctx, vault.GetCallDepth(ctx)+1), db, action)
}
