package multisig

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

const optKey = "multisig"

// Genesis is the initial state of the vault as read from the genesis file.
//
//   "multisig": {
//     "owners": ["hex address", "bech32:..."],
//     "approvals_required": 2
//   }
type Genesis struct {
	Owners            []vault.Address `json:"owners"`
	ApprovalsRequired uint32          `json:"approvals_required"`
}

// Validate ensures the owners are non empty, valid and unique, and that
// the threshold can be reached by them.
func (g Genesis) Validate() error {
	if len(g.Owners) == 0 {
		return errors.Wrap(ErrInvalidOwner, "no owners")
	}
	seen := make(map[string]struct{}, len(g.Owners))
	for i, o := range g.Owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidOwner, "owner %d: %s", i, err)
		}
		if _, ok := seen[string(o)]; ok {
			return errors.Wrapf(ErrInvalidOwner, "owner %d: duplicate %s", i, o)
		}
		seen[string(o)] = struct{}{}
	}
	if g.ApprovalsRequired == 0 || int(g.ApprovalsRequired) > len(g.Owners) {
		return errors.Wrapf(ErrInvalidThreshold, "%d of %d owners", g.ApprovalsRequired, len(g.Owners))
	}
	return nil
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ vault.Initializer = Initializer{}

// FromGenesis stores the configuration, the registry and every owner.
func (Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	if err := gconf.InitConfig(db, opts, pkgName, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var g Genesis
	if err := opts.ReadOptions(optKey, &g); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := g.Validate(); err != nil {
		return err
	}

	b := newBuckets()
	reg := &Registry{Roster: g.Owners, ApprovalsRequired: g.ApprovalsRequired}
	if err := b.registry.Put(db, []byte(registryKey), reg); err != nil {
		return errors.Wrap(err, "cannot store registry")
	}
	for _, o := range g.Owners {
		if err := b.owners.Put(db, o, &Owner{Address: o}); err != nil {
			return errors.Wrapf(err, "cannot store owner %s", o)
		}
	}
	return nil
}
