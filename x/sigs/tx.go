package sigs

import (
	"github.com/iov-one/vault/errors"
)

// StdSignature is a signature of a single key over the sign bytes of a
// transaction.
type StdSignature struct {
	// Pubkey is the raw ed25519 public key of the signer.
	Pubkey []byte `json:"pubkey"`
	// Signature over the bytes built by BuildSignBytes.
	Signature []byte `json:"signature"`
	// Sequence is the nonce of the signer.
	Sequence int64 `json:"sequence"`
}

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
