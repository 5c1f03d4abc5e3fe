package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := vault.WithLogger(context.Background(), logger)
	tx := &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "multisig/execute"}}

	h := vaulttest.Decorate(&vaulttest.Handler{
		DeliverResult: vault.DeliverResult{Log: "executed"},
		CheckErr:      errors.ErrUnauthorized,
	}, NewLogging())

	_, err := h.Deliver(ctx, store.MemStore(), tx)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "executed")
	assert.Contains(t, buf.String(), "path=multisig/execute")

	buf.Reset()
	_, err = h.Check(ctx, store.MemStore(), tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Contains(t, buf.String(), "err=unauthorized")
}
