package vaulttest

import (
	"context"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/stretchr/testify/assert"
)

func TestDecorator(t *testing.T) {
	handler := &Handler{}
	d := &Decorator{}
	h := Decorate(handler, d)

	ctx := context.Background()
	db := store.MemStore()
	tx := &Tx{Msg: &Msg{RoutePath: "test/mock"}}

	_, err := h.Check(ctx, db, tx)
	assert.NoError(t, err)
	_, err = h.Deliver(ctx, db, tx)
	assert.NoError(t, err)
	assert.Equal(t, 2, d.CallCount())
	assert.Equal(t, 2, handler.CallCount())

	d.DeliverErr = errors.ErrUnauthorized
	_, err = h.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 2, d.DeliverCallCount())
	// handler is not reached on a decorator failure
	assert.Equal(t, 1, handler.DeliverCallCount())
}
