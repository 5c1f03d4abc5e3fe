package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const (
	pathDepositMsg      = "multisig/deposit"
	pathSubmitMsg       = "multisig/submit"
	pathApproveMsg      = "multisig/approve"
	pathRevokeMsg       = "multisig/revoke"
	pathExecuteMsg      = "multisig/execute"
	pathAddOwnerMsg     = "multisig/add_owner"
	pathRemoveOwnerMsg  = "multisig/remove_owner"
	pathSetThresholdMsg = "multisig/set_threshold"
)

// DepositMsg pays value from the signer into the vault.
type DepositMsg struct {
	Amount uint64
}

// SubmitMsg proposes a new transaction. Any value and payload is accepted,
// including zero value and an empty payload. An empty target makes a signal
// proposal: it executes only when it carries neither value nor payload,
// anything else fails with ErrCallFailed and stays pending.
type SubmitMsg struct {
	To    vault.Address
	Value uint64
	Data  []byte
}

// ApproveMsg records the approval of the signer.
type ApproveMsg struct {
	TxIndex uint64
}

// RevokeMsg withdraws the approval of the signer.
type RevokeMsg struct {
	TxIndex uint64
}

// ExecuteMsg dispatches the action of an approved transaction.
type ExecuteMsg struct {
	TxIndex uint64
}

// AddOwnerMsg adds an identity to the owners and sets a new threshold.
type AddOwnerMsg struct {
	Owner             vault.Address
	ApprovalsRequired uint32
}

// RemoveOwnerMsg removes an identity from the owners and sets a new
// threshold.
type RemoveOwnerMsg struct {
	Owner             vault.Address
	ApprovalsRequired uint32
}

// SetThresholdMsg changes the number of approvals required.
type SetThresholdMsg struct {
	ApprovalsRequired uint32
}

var (
	_ vault.Msg = (*DepositMsg)(nil)
	_ vault.Msg = (*SubmitMsg)(nil)
	_ vault.Msg = (*ApproveMsg)(nil)
	_ vault.Msg = (*RevokeMsg)(nil)
	_ vault.Msg = (*ExecuteMsg)(nil)
	_ vault.Msg = (*AddOwnerMsg)(nil)
	_ vault.Msg = (*RemoveOwnerMsg)(nil)
	_ vault.Msg = (*SetThresholdMsg)(nil)
)

func (DepositMsg) Path() string      { return pathDepositMsg }
func (SubmitMsg) Path() string       { return pathSubmitMsg }
func (ApproveMsg) Path() string      { return pathApproveMsg }
func (RevokeMsg) Path() string       { return pathRevokeMsg }
func (ExecuteMsg) Path() string      { return pathExecuteMsg }
func (AddOwnerMsg) Path() string     { return pathAddOwnerMsg }
func (RemoveOwnerMsg) Path() string  { return pathRemoveOwnerMsg }
func (SetThresholdMsg) Path() string { return pathSetThresholdMsg }

// Validate accepts any amount. Depositing nothing moves no coins but is
// still recorded.
func (DepositMsg) Validate() error { return nil }

// Validate ensures the target, when given, is a well formed address.
func (m SubmitMsg) Validate() error {
	if len(m.To) == 0 {
		return nil
	}
	if err := m.To.Validate(); err != nil {
		return errors.Wrap(err, "to")
	}
	return nil
}

// Validate accepts any index, missing transactions are reported by the
// handler.
func (ApproveMsg) Validate() error { return nil }

// Validate accepts any index, missing transactions are reported by the
// handler.
func (RevokeMsg) Validate() error { return nil }

// Validate accepts any index, missing transactions are reported by the
// handler.
func (ExecuteMsg) Validate() error { return nil }

// Owner and threshold of the registry messages are validated by the
// handler, after the signer was authorized.

func (AddOwnerMsg) Validate() error     { return nil }
func (RemoveOwnerMsg) Validate() error  { return nil }
func (SetThresholdMsg) Validate() error { return nil }
