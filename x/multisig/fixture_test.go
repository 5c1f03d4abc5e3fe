package multisig

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/utils"
	"github.com/stretchr/testify/require"
)

const testVaultName = "treasury"

// handlerMap is the simplest vault.Registry.
type handlerMap map[string]vault.Handler

func (h handlerMap) Handle(path string, hn vault.Handler) {
	h[path] = hn
}

type fixture struct {
	t        *testing.T
	db       vault.CacheableKVStore
	auth     *vaulttest.CtxAuth
	ctrl     cash.BaseController
	handlers handlerMap
	reader   Reader
	vault    vault.Address
}

// newFixture returns a vault governed by given owners. A nil executor
// means the default cash executor.
func newFixture(t *testing.T, exec Executor, threshold uint32, owners ...vault.Condition) *fixture {
	t.Helper()

	f := &fixture{
		t:        t,
		db:       store.MemStore(),
		auth:     &vaulttest.CtxAuth{Key: "auth"},
		ctrl:     cash.NewController(cash.NewBucket()),
		handlers: make(handlerMap),
		vault:    VaultAddress(testVaultName),
	}
	f.reader = NewReader(f.ctrl)
	if exec == nil {
		exec = NewCashExecutor(f.ctrl)
	}
	RegisterRoutes(f.handlers, f.auth, f.ctrl, exec)

	addrs := make([]vault.Address, len(owners))
	for i, o := range owners {
		addrs[i] = o.Address()
	}
	opts := vault.Options{
		"conf":     json.RawMessage(`{"multisig": {"name": "` + testVaultName + `", "ticker": "IOV"}}`),
		"multisig": mustJSON(t, Genesis{Owners: addrs, ApprovalsRequired: threshold}),
	}
	require.NoError(t, Initializer{}.FromGenesis(opts, f.db))
	return f
}

func mustJSON(t testing.TB, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func (f *fixture) ctx(signer vault.Condition) vault.Context {
	ctx := context.Background()
	if signer != nil {
		ctx = f.auth.SetConditions(ctx, signer)
	}
	return ctx
}

func (f *fixture) handler(msg vault.Msg) vault.Handler {
	f.t.Helper()
	h, ok := f.handlers[msg.Path()]
	require.True(f.t, ok, "no handler for %q", msg.Path())
	return vaulttest.Decorate(h, utils.NewSavepoint().OnDeliver())
}

// deliver processes the message signed by given signer within a savepoint,
// the way the application does it. A nil signer sends an unsigned request.
func (f *fixture) deliver(signer vault.Condition, msg vault.Msg) (*vault.DeliverResult, error) {
	f.t.Helper()
	return f.handler(msg).Deliver(f.ctx(signer), f.db, &vaulttest.Tx{Msg: msg})
}

func (f *fixture) check(signer vault.Condition, msg vault.Msg) error {
	f.t.Helper()
	// Check must never modify the state, use a throw away cache.
	cache := f.db.CacheWrap()
	defer cache.Discard()
	_, err := f.handler(msg).Check(f.ctx(signer), cache, &vaulttest.Tx{Msg: msg})
	return err
}

func (f *fixture) mustDeliver(signer vault.Condition, msg vault.Msg) *vault.DeliverResult {
	f.t.Helper()
	res, err := f.deliver(signer, msg)
	require.NoError(f.t, err, "%T", msg)
	return res
}

func (f *fixture) submit(signer vault.Condition, to vault.Address, value uint64, data []byte) uint64 {
	f.t.Helper()
	res := f.mustDeliver(signer, &SubmitMsg{To: to, Value: value, Data: data})
	require.Len(f.t, res.Data, 8)
	n, err := txSeq.Latest(f.db)
	require.NoError(f.t, err)
	return uint64(n - 1)
}

func (f *fixture) tx(index uint64) *Transaction {
	f.t.Helper()
	tx, err := f.reader.Transaction(f.db, index)
	require.NoError(f.t, err)
	return tx
}

func (f *fixture) balance(addr vault.Address) uint64 {
	f.t.Helper()
	bal, err := f.ctrl.Balance(f.db, addr)
	require.NoError(f.t, err)
	return bal
}

func (f *fixture) events() []vault.Event {
	f.t.Helper()
	events, err := f.reader.Events(f.db)
	require.NoError(f.t, err)
	return events
}

func (f *fixture) fund(addr vault.Address, amount uint64) {
	f.t.Helper()
	require.NoError(f.t, f.ctrl.IssueCoins(f.db, addr, amount))
}
