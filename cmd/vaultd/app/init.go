package app

import (
	"encoding/json"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/multisig"
)

// GenesisParams describes a new vault.
type GenesisParams struct {
	ChainID           string
	VaultName         string
	Ticker            string
	Owners            []vault.Address
	ApprovalsRequired uint32
	// Accounts are funded at genesis, so they can deposit into the vault.
	Accounts []cash.GenesisAccount
}

// GenInitOptions builds a genesis document for a new vault. The result is
// validated by the extensions only when loaded by InitChain.
func GenInitOptions(p GenesisParams) (*app.Genesis, error) {
	type dict map[string]interface{}

	accounts := p.Accounts
	if accounts == nil {
		accounts = []cash.GenesisAccount{}
	}
	raw := dict{
		"cash": accounts,
		"conf": dict{
			"multisig": multisig.Configuration{
				Name:   p.VaultName,
				Ticker: p.Ticker,
			},
		},
		"multisig": multisig.Genesis{
			Owners:            p.Owners,
			ApprovalsRequired: p.ApprovalsRequired,
		},
	}

	opts := make(vault.Options, len(raw))
	for key, value := range raw {
		bz, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "marshal %s: %s", key, err)
		}
		opts[key] = bz
	}
	gen := &app.Genesis{ChainID: p.ChainID, AppState: opts}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return gen, nil
}
