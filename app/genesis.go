package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Genesis is the initial state of a vault. AppState holds the options of
// every extension, keyed by extension name.
type Genesis struct {
	ChainID  string        `json:"chain_id"`
	AppState vault.Options `json:"app_state"`
}

// Validate returns an error if the genesis cannot be used to initialize
// an application.
func (g Genesis) Validate() error {
	if !vault.IsValidChainID(g.ChainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", g.ChainID)
	}
	if len(g.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app state")
	}
	return nil
}

// LoadGenesis reads a genesis file from the given path.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read %s: %s", filePath, err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "parse %s: %s", filePath, err)
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}
