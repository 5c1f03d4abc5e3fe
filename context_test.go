package vault

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContextLogger(t *testing.T) {
	bg := context.Background()
	assert.Equal(t, DefaultLogger, GetLogger(bg))

	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := WithLogInfo(WithLogger(bg, logger), "module", "multisig")
	GetLogger(ctx).Info("hello")
	assert.Contains(t, buf.String(), "module=multisig")
	assert.Contains(t, buf.String(), "hello")
}

func TestCallDepth(t *testing.T) {
	bg := context.Background()
	assert.Equal(t, 0, GetCallDepth(bg))
	ctx := WithCallDepth(bg, 2)
	assert.Equal(t, 2, GetCallDepth(ctx))
}

func TestReadOptions(t *testing.T) {
	opts := Options{"multisig": []byte(`{"approvals_required": 2}`)}

	var conf struct {
		ApprovalsRequired uint32 `json:"approvals_required"`
	}
	assert.NoError(t, opts.ReadOptions("multisig", &conf))
	assert.Equal(t, uint32(2), conf.ApprovalsRequired)

	// missing keys are not an error
	assert.NoError(t, opts.ReadOptions("cash", &conf))
}

func TestChainID(t *testing.T) {
	bg := context.Background()
	assert.Equal(t, "", GetChainID(bg))

	ctx := WithChainID(bg, "vault-test")
	assert.Equal(t, "vault-test", GetChainID(ctx))

	assert.Panics(t, func() { WithChainID(ctx, "vault-other") })
	assert.Panics(t, func() { WithChainID(bg, "no") })
	assert.False(t, IsValidChainID("has space"))
}
