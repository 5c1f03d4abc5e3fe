package multisig

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisValidate(t *testing.T) {
	a, b, c := vaulttest.RandomAddr(t), vaulttest.RandomAddr(t), vaulttest.RandomAddr(t)

	cases := map[string]struct {
		genesis Genesis
		wantErr *errors.Error
	}{
		"two of three": {
			genesis: Genesis{Owners: []vault.Address{a, b, c}, ApprovalsRequired: 2},
			wantErr: nil,
		},
		"all of three": {
			genesis: Genesis{Owners: []vault.Address{a, b, c}, ApprovalsRequired: 3},
			wantErr: nil,
		},
		"no owners": {
			genesis: Genesis{ApprovalsRequired: 1},
			wantErr: ErrInvalidOwner,
		},
		"duplicated owner": {
			genesis: Genesis{Owners: []vault.Address{a, b, a}, ApprovalsRequired: 1},
			wantErr: ErrInvalidOwner,
		},
		"null owner": {
			genesis: Genesis{Owners: []vault.Address{a, nil}, ApprovalsRequired: 1},
			wantErr: ErrInvalidOwner,
		},
		"zero threshold": {
			genesis: Genesis{Owners: []vault.Address{a, b}, ApprovalsRequired: 0},
			wantErr: ErrInvalidThreshold,
		},
		"threshold above owner count": {
			genesis: Genesis{Owners: []vault.Address{a, b}, ApprovalsRequired: 3},
			wantErr: ErrInvalidThreshold,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.genesis.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestFromGenesis(t *testing.T) {
	a, b := vaulttest.RandomAddr(t), vaulttest.RandomAddr(t)
	conf := json.RawMessage(`{"multisig": {"name": "treasury", "ticker": "IOV"}}`)

	cases := map[string]struct {
		opts    vault.Options
		wantErr *errors.Error
	}{
		"valid": {
			opts: vault.Options{
				"conf":     conf,
				"multisig": mustJSON(t, Genesis{Owners: []vault.Address{a, b}, ApprovalsRequired: 2}),
			},
		},
		"missing configuration": {
			opts: vault.Options{
				"multisig": mustJSON(t, Genesis{Owners: []vault.Address{a, b}, ApprovalsRequired: 2}),
			},
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			opts: vault.Options{
				"conf":     json.RawMessage(`{"multisig": {"name": "X", "ticker": "iov"}}`),
				"multisig": mustJSON(t, Genesis{Owners: []vault.Address{a, b}, ApprovalsRequired: 2}),
			},
			wantErr: errors.ErrInvalidModel,
		},
		"missing owners": {
			opts:    vault.Options{"conf": conf},
			wantErr: ErrInvalidOwner,
		},
		"malformed owners": {
			opts: vault.Options{
				"conf":     conf,
				"multisig": json.RawMessage(`{"owners": ["zz"], "approvals_required": 1}`),
			},
			wantErr: errors.ErrInvalidInput,
		},
		"unreachable threshold": {
			opts: vault.Options{
				"conf":     conf,
				"multisig": mustJSON(t, Genesis{Owners: []vault.Address{a}, ApprovalsRequired: 2}),
			},
			wantErr: ErrInvalidThreshold,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := (Initializer{}).FromGenesis(tc.opts, db); !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}

			r := NewReader(nil)
			roster, err := r.Roster(db)
			require.NoError(t, err)
			assert.Equal(t, []vault.Address{a, b}, roster)
			for _, addr := range roster {
				ok, err := r.IsOwner(db, addr)
				require.NoError(t, err)
				assert.True(t, ok)
			}
			thr, err := r.ApprovalsRequired(db)
			require.NoError(t, err)
			assert.Equal(t, uint32(2), thr)
		})
	}
}

func TestConfigurationValidate(t *testing.T) {
	cases := map[string]struct {
		conf    Configuration
		wantErr *errors.Error
	}{
		"valid":          {conf: Configuration{Name: "team-fund_1", Ticker: "ETH"}},
		"short name":     {conf: Configuration{Name: "ab", Ticker: "ETH"}, wantErr: errors.ErrInvalidModel},
		"upper name":     {conf: Configuration{Name: "Fund", Ticker: "ETH"}, wantErr: errors.ErrInvalidModel},
		"lower ticker":   {conf: Configuration{Name: "fund", Ticker: "eth"}, wantErr: errors.ErrInvalidModel},
		"long ticker":    {conf: Configuration{Name: "fund", Ticker: "ETHER"}, wantErr: errors.ErrInvalidModel},
		"missing ticker": {conf: Configuration{Name: "fund"}, wantErr: errors.ErrInvalidModel},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.conf.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestEventRecord(t *testing.T) {
	owner := vaulttest.RandomAddr(t)

	rec, err := NewEventRecord(ApproveEvent{Owner: owner, TxIndex: 3})
	require.NoError(t, err)
	require.NoError(t, rec.Validate())
	assert.Equal(t, "approve", rec.Name)

	e, err := rec.Event()
	require.NoError(t, err)
	assert.Equal(t, ApproveEvent{Owner: owner, TxIndex: 3}, e)

	// Zero value events encode to nothing.
	rec, err = NewEventRecord(ExecuteEvent{})
	require.NoError(t, err)
	e, err = rec.Event()
	require.NoError(t, err)
	assert.Equal(t, ExecuteEvent{}, e)

	rec = &EventRecord{Name: "unknown"}
	assert.True(t, errors.ErrInvalidModel.Is(rec.Validate()))
	_, err = rec.Event()
	assert.True(t, errors.ErrInvalidModel.Is(err))
}
