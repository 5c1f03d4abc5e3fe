package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// chainIDKey is the store key under which the chain id is persisted.
// It is prefixed to stay out of the way of any extension bucket.
const chainIDKey = "_v:chainID"

// CommitStore wraps a CommitKVStore and runs every change within a cache
// that is written and committed as a whole.
type CommitStore struct {
	committed vault.CommitKVStore
}

// NewCommitStore loads the latest persisted version of the store.
func NewCommitStore(store vault.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{committed: store}, nil
}

// Update runs fn within a cache of the committed state. The changes are
// committed only when fn succeeds, otherwise they are discarded.
func (cs *CommitStore) Update(fn func(db vault.CacheableKVStore) error) (vault.CommitID, error) {
	cache := cs.committed.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return vault.CommitID{}, err
	}
	if err := cache.Write(); err != nil {
		return vault.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	id, err := cs.committed.Commit()
	if err != nil {
		return vault.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return id, nil
}

// View runs fn within a cache of the committed state that is always
// discarded.
func (cs *CommitStore) View(fn func(db vault.CacheableKVStore) error) error {
	cache := cs.committed.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

// LatestVersion returns the version and hash of the last commit.
func (cs *CommitStore) LatestVersion() (vault.CommitID, error) {
	return cs.committed.LatestVersion()
}

// ChainID returns the chain id stored at genesis, or an empty string if
// the store was never initialized.
func (cs *CommitStore) ChainID() (string, error) {
	raw, err := cs.committed.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(raw), nil
}

func saveChainID(db vault.KVStore, chainID string) error {
	if !vault.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	return db.Set([]byte(chainIDKey), []byte(chainID))
}
