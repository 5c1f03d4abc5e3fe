package app

import (
	"context"
	"sync"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (vault.Tx, error)

// Application processes requests against a single committed store.
//
// All requests are serialized. A delivered transaction is committed as a
// new version of the store when it succeeds and leaves no trace when it
// fails.
type Application struct {
	mu sync.Mutex

	name    string
	store   *CommitStore
	decoder TxDecoder
	handler vault.Handler
	queries vault.QueryRouter
	init    vault.Initializer
	logger  log.Logger
	debug   bool
}

// NewApplication creates an Application. The handler should be the full
// decorator chain ending with a Router.
func NewApplication(
	name string,
	store *CommitStore,
	decoder TxDecoder,
	handler vault.Handler,
	queries vault.QueryRouter,
	init vault.Initializer,
) *Application {
	return &Application{
		name:    name,
		store:   store,
		decoder: decoder,
		handler: handler,
		queries: queries,
		init:    init,
		logger:  log.NewNopLogger(),
	}
}

// WithLogger sets the logger passed to every request context.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger.With("module", a.name)
	return a
}

// WithDebug toggles debug mode. In debug mode internal errors are returned
// as they are instead of being redacted.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// InitChain stores the chain id and runs all initializers. It can be
// called only once for a store.
func (a *Application) InitChain(gen Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := gen.Validate(); err != nil {
		return err
	}
	if current, err := a.store.ChainID(); err != nil {
		return err
	} else if current != "" {
		return errors.Wrapf(errors.ErrInvalidState, "already initialized as %q", current)
	}

	_, err := a.store.Update(func(db vault.CacheableKVStore) error {
		if err := saveChainID(db, gen.ChainID); err != nil {
			return err
		}
		if err := a.init.FromGenesis(gen.AppState, db); err != nil {
			return errors.Wrap(err, "initialize from genesis")
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.logger.Info("chain initialized", "chain_id", gen.ChainID)
	return nil
}

// ChainID returns the chain id stored at genesis.
func (a *Application) ChainID() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.ChainID()
}

// CheckTx runs the transaction against a throw away cache of the
// committed state.
func (a *Application) CheckTx(txBytes []byte) (*vault.CheckResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, tx, err := a.prepare(txBytes)
	if err != nil {
		return nil, errors.Redact(err, a.debug)
	}

	var res *vault.CheckResult
	err = a.store.View(func(db vault.CacheableKVStore) error {
		var err error
		res, err = a.handler.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, errors.Redact(err, a.debug)
	}
	return res, nil
}

// DeliverTx runs the transaction and commits its changes.
func (a *Application) DeliverTx(txBytes []byte) (*vault.DeliverResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, tx, err := a.prepare(txBytes)
	if err != nil {
		return nil, errors.Redact(err, a.debug)
	}

	var res *vault.DeliverResult
	id, err := a.store.Update(func(db vault.CacheableKVStore) error {
		var err error
		res, err = a.handler.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, errors.Redact(err, a.debug)
	}
	a.logger.Debug("commit", "version", id.Version, "hash", id.Hash)
	return res, nil
}

// Query returns the models found by the query handler registered for the
// path. The committed state is used.
func (a *Application) Query(path, mod string, data []byte) ([]vault.Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	qh := a.queries.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for %q", path)
	}
	var models []vault.Model
	err := a.store.View(func(db vault.CacheableKVStore) error {
		var err error
		models, err = qh.Query(db, mod, data)
		return err
	})
	if err != nil {
		return nil, errors.Redact(err, a.debug)
	}
	return models, nil
}

// View runs fn against the committed state. Nothing fn writes is kept.
func (a *Application) View(fn func(db vault.ReadOnlyKVStore) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.View(func(db vault.CacheableKVStore) error {
		return fn(db)
	})
}

// LatestVersion returns the version and hash of the last commit.
func (a *Application) LatestVersion() (vault.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.LatestVersion()
}

func (a *Application) prepare(txBytes []byte) (vault.Context, vault.Tx, error) {
	chainID, err := a.store.ChainID()
	if err != nil {
		return nil, nil, err
	}
	if chainID == "" {
		return nil, nil, errors.Wrap(errors.ErrInvalidState, "chain not initialized")
	}
	tx, err := a.decoder(txBytes)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	ctx := vault.WithLogger(context.Background(), a.logger)
	ctx = vault.WithChainID(ctx, chainID)
	return ctx, tx, nil
}
