package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(sigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := vault.WithChainID(context.Background(), chainID)

	priv := vaulttest.NewKey()
	perms := []vault.Condition{priv.Condition()}

	tx := newStdTx([]byte("art"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec vault.Decorator, my vault.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec vault.Decorator, my vault.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(vault.Decorator, vault.Tx) error{check, deliver} {
		// test with no sigs
		tx.Signatures = nil
		err := fn(d, tx)
		assert.True(t, errors.ErrUnauthorized.Is(err), "%d: %+v", i, err)

		// test with one
		tx.Signatures = []*StdSignature{sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// test with replay
		err = fn(d, tx)
		assert.True(t, ErrInvalidSequence.Is(err), "%d: %+v", i, err)

		// test allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, []vault.Condition{}, signers.Signers)

		// test allowing, with next sequence
		tx.Signatures = []*StdSignature{sig1}
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)
	}
}

func TestDecoratorPassesUnsignedTx(t *testing.T) {
	signers := new(sigCheckHandler)
	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/sigs"}}

	_, err := NewDecorator().Deliver(context.Background(), store.MemStore(), tx, signers)
	require.NoError(t, err)
	assert.Empty(t, signers.Signers)
}

func TestDecoratorWrongChain(t *testing.T) {
	priv := vaulttest.NewKey()
	tx := newStdTx([]byte("chain bound"))
	sig, err := SignTx(priv, tx, "chain-one", 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	ctx := vault.WithChainID(context.Background(), "chain-two")
	_, err = NewDecorator().Deliver(ctx, store.MemStore(), tx, new(sigCheckHandler))
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
}
