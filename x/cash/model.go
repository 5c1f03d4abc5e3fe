package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the amount of value held by a single address.
type Balance struct {
	Amount uint64
}

var _ orm.Model = (*Balance)(nil)

// Validate requires the balance to hold some value. Empty balances are
// deleted instead of being stored.
func (b *Balance) Validate() error {
	if b.Amount == 0 {
		return errors.Wrap(errors.ErrEmpty, "amount")
	}
	return nil
}

// Copy makes a new balance with the same amount
func (b *Balance) Copy() orm.Model {
	return &Balance{Amount: b.Amount}
}

// Bucket is a type-safe wrapper around orm.ModelBucket
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Balance{}),
	}
}

// Get returns the amount held by given address. Unknown addresses hold
// nothing.
func (b Bucket) Get(db vault.ReadOnlyKVStore, addr vault.Address) (uint64, error) {
	var bal Balance
	switch err := b.One(db, addr, &bal); {
	case err == nil:
		return bal.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Set stores the amount held by given address.
func (b Bucket) Set(db vault.KVStore, addr vault.Address, amount uint64) error {
	if amount == 0 {
		err := b.Delete(db, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return b.Put(db, addr, &Balance{Amount: amount})
}

// RegisterQuery will register this bucket as "/balances"
func RegisterQuery(qr vault.QueryRouter) {
	NewBucket().Register("balances", qr)
}
