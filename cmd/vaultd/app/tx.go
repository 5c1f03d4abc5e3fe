package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/sigs"
	amino "github.com/tendermint/go-amino"
)

// TxCodec encodes transactions. Every message handled by the application
// must be registered with it.
var TxCodec = amino.NewCodec()

func init() {
	TxCodec.RegisterInterface((*vault.Msg)(nil), nil)
	TxCodec.RegisterConcrete(&multisig.DepositMsg{}, "multisig/Deposit", nil)
	TxCodec.RegisterConcrete(&multisig.SubmitMsg{}, "multisig/Submit", nil)
	TxCodec.RegisterConcrete(&multisig.ApproveMsg{}, "multisig/Approve", nil)
	TxCodec.RegisterConcrete(&multisig.RevokeMsg{}, "multisig/Revoke", nil)
	TxCodec.RegisterConcrete(&multisig.ExecuteMsg{}, "multisig/Execute", nil)
	TxCodec.RegisterConcrete(&multisig.AddOwnerMsg{}, "multisig/AddOwner", nil)
	TxCodec.RegisterConcrete(&multisig.RemoveOwnerMsg{}, "multisig/RemoveOwner", nil)
	TxCodec.RegisterConcrete(&multisig.SetThresholdMsg{}, "multisig/SetThreshold", nil)
}

// Tx is a single signed request.
type Tx struct {
	Msg        vault.Msg
	Signatures []*sigs.StdSignature
}

// make sure tx fulfills all interfaces
var _ vault.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg vault.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (vault.Tx, error) {
	var tx Tx
	if err := TxCodec.UnmarshalBinaryBare(bz, &tx); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return &tx, nil
}

// Marshal returns the binary representation of the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := TxCodec.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return bz, nil
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (vault.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "unable to decode")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are never part of
// them.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}
