/*
Package app wires the vault extensions into a ready to use application.

It is a good place to see how the various components fit together: the
decorator chain, the router, the query router and the persistent store.
*/
package app

import (
	"os"
	"path/filepath"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store/iavl"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Name of the application, used for logging and the database name.
const Name = "vault"

// Supported storage backends.
const (
	BackendGoLevelDB = "goleveldb"
	BackendMemDB     = "memdb"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// CashControl returns a controller for cash functions
func CashControl() cash.Controller {
	return cash.NewController(cash.NewBucket())
}

// Executor returns the executor dispatching actions of executed vault
// transactions.
func Executor() multisig.Executor {
	return multisig.NewCashExecutor(CashControl())
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. Metrics can be nil.
func Chain(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// execution is permissionless, other handlers require a signer
		sigs.NewDecorator().AllowMissingSigs(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to all vault operations.
func Router(authFn x.Authenticator, exec multisig.Executor) *app.Router {
	r := app.NewRouter()
	multisig.RegisterRoutes(r, authFn, CashControl(), exec)
	return r
}

// QueryRouter returns a query router giving access to all buckets.
func QueryRouter() vault.QueryRouter {
	r := vault.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		multisig.RegisterQuery,
	)
	return r
}

// Initializers returns the initializers of all extensions.
func Initializers() vault.Initializer {
	return vault.ChainInitializers(
		cash.Initializer{},
		multisig.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator chain.
func Stack(metrics *utils.Metrics, exec multisig.Executor) vault.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn, exec))
}

// Config holds everything needed to open an application.
type Config struct {
	// Home is the directory where the database is stored.
	Home string
	// Backend is either goleveldb or memdb.
	Backend string
	// CacheSize is the number of tree nodes kept in memory.
	CacheSize int
	// Debug disables redaction of internal errors.
	Debug bool
	// Metrics records processed requests. Disabled when nil.
	Metrics *utils.Metrics
}

// Application opens the store described by the configuration and returns
// an application running the standard stack on top of it. Call close when
// done.
func Application(conf Config, logger log.Logger) (a *app.Application, close func(), err error) {
	kv, err := CommitKVStore(conf)
	if err != nil {
		return nil, nil, err
	}
	store, err := app.NewCommitStore(kv)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}

	a = app.NewApplication(Name, store, TxDecoder, Stack(conf.Metrics, Executor()), QueryRouter(), Initializers()).
		WithLogger(logger).
		WithDebug(conf.Debug)
	return a, kv.Close, nil
}

// CommitKVStore returns an initialized store that persists the data in
// the home directory. The memdb backend keeps everything in memory.
func CommitKVStore(conf Config) (*iavl.CommitStore, error) {
	switch conf.Backend {
	case BackendMemDB:
		return iavl.NewCommitStore("", Name, conf.CacheSize), nil
	case BackendGoLevelDB, "":
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown backend %q", conf.Backend)
	}

	dir, err := filepath.Abs(filepath.Join(conf.Home, "data"))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid home %q", conf.Home)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return iavl.NewCommitStore(dir, Name, conf.CacheSize), nil
}
