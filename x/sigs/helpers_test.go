package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/vaulttest"
)

// stdTx is a signed transaction with a fixed payload.
type stdTx struct {
	payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)
var _ vault.Tx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{payload: payload}
}

func (tx *stdTx) GetMsg() (vault.Msg, error) {
	return &vaulttest.Msg{RoutePath: "test/sigs"}, nil
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	return tx.payload, nil
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []vault.Condition
}

var _ vault.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx vault.Context, store vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &vault.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx vault.Context, store vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &vault.DeliverResult{}, nil
}
