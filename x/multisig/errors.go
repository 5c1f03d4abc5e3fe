package multisig

import (
	"github.com/iov-one/vault/errors"
)

// multisig takes 1030-1039
var (
	// ErrInvalidOwner is returned when an owner identity is null, already
	// a member or not a member when it should be.
	ErrInvalidOwner = errors.Register(1030, "invalid owner")

	// ErrInvalidThreshold is returned when the number of required
	// approvals is zero, or exceeds the number of owners at construction.
	ErrInvalidThreshold = errors.Register(1031, "invalid threshold")

	// ErrAlreadyApproved is returned when an owner approves the same
	// transaction twice.
	ErrAlreadyApproved = errors.Register(1032, "already approved")

	// ErrNotApproved is returned when an owner revokes an approval that
	// was never given.
	ErrNotApproved = errors.Register(1033, "not approved")

	// ErrAlreadyExecuted is returned for any change of an executed
	// transaction.
	ErrAlreadyExecuted = errors.Register(1034, "already executed")

	// ErrInsufficientApprovals is returned when a transaction is executed
	// before reaching the quorum.
	ErrInsufficientApprovals = errors.Register(1035, "insufficient approvals")

	// ErrCallFailed is returned when the action of an executed transaction
	// fails.
	ErrCallFailed = errors.Register(1036, "call failed")
)
