package sigs

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// UserData is the nonce state of a single signer.
type UserData struct {
	Pubkey   []byte
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

// Validate requires a public key and a sequence in the supported range.
func (u *UserData) Validate() error {
	if len(u.Pubkey) == 0 {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	if u.Sequence < 0 || u.Sequence > maxSequenceValue {
		return errors.Wrapf(ErrInvalidSequence, "%d out of range", u.Sequence)
	}
	return nil
}

// Copy makes a new UserData with the same state
func (u *UserData) Copy() orm.Model {
	return &UserData{
		Pubkey:   append([]byte(nil), u.Pubkey...),
		Sequence: u.Sequence,
	}
}

// Address returns the address of the signer.
func (u *UserData) Address() vault.Address {
	return crypto.PublicKeyCondition(u.Pubkey).Address()
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores the nonce state of every signer, keyed by its address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the state of given signer. A signer that was never
// seen starts at sequence zero.
func (b Bucket) GetOrCreate(db vault.ReadOnlyKVStore, pubkey []byte) (*UserData, error) {
	user := UserData{Pubkey: pubkey}
	switch err := b.One(db, user.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the state of the signer.
func (b Bucket) Save(db vault.KVStore, user *UserData) error {
	return b.Put(db, user.Address(), user)
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr vault.QueryRouter) {
	NewBucket().Register("auth", qr)
}
