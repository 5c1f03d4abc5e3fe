package cash

import (
	"math"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Controller is the functionality needed by other extensions that want to
// read or move balances.
type Controller interface {
	// Balance returns the amount held by given address.
	Balance(db vault.ReadOnlyKVStore, addr vault.Address) (uint64, error)
	// MoveCoins moves the given amount from src to dest.
	MoveCoins(db vault.KVStore, src, dest vault.Address, amount uint64) error
	// IssueCoins adds the given amount to the destination address.
	IssueCoins(db vault.KVStore, dest vault.Address, amount uint64) error
}

// BaseController is the default implementation of the Controller.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller that stores balances in given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by given address. Unknown addresses hold
// nothing.
func (c BaseController) Balance(db vault.ReadOnlyKVStore, addr vault.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	return c.bucket.Get(db, addr)
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't have sufficient coins, it fails. Moving a zero amount is
// not allowed.
func (c BaseController) MoveCoins(db vault.KVStore, src, dest vault.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	have, err := c.Balance(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", have, amount)
	}
	if err := c.bucket.Set(db, src, have-amount); err != nil {
		return err
	}
	// Moving to self must see the already decreased amount.
	return c.IssueCoins(db, dest, amount)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the balance.
func (c BaseController) IssueCoins(db vault.KVStore, dest vault.Address, amount uint64) error {
	have, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	if have > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "%d + %d", have, amount)
	}
	return c.bucket.Set(db, dest, have+amount)
}
