/*
Package multisig implements a shared custody vault.

The vault holds value and releases it, or dispatches an arbitrary action,
only after a quorum of owners approved the request. Four parts cooperate:

The owner registry keeps an append-only roster of every identity that was
ever an owner, the set of current owners and the number of approvals
required.

The transaction ledger assigns each submitted request a zero-based index
that is never reused.

The approval tracker records a yes/no flag for each (transaction, owner)
pair. The approval count stored on the transaction is updated in the same
write as the flag. Approvals of removed owners keep counting.

The execution engine can be triggered by anyone once the quorum is reached.
It marks the transaction executed before the action is dispatched, so any
nested call observes the executed state. If the action fails, every change
made by the execution is discarded and the execution may be retried.
*/
package multisig
