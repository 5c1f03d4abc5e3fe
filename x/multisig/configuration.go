package multisig

import (
	"regexp"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/orm"
)

const pkgName = "multisig"

var (
	isName   = regexp.MustCompile(`^[a-z0-9_\-]{3,32}$`).MatchString
	isTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString
)

// Configuration describes the vault instance. It is stored with gconf.
type Configuration struct {
	// Name identifies the vault. The vault account address is derived
	// from it.
	Name string `json:"name"`
	// Ticker is the symbol of the single asset held by the vault.
	Ticker string `json:"ticker"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// Validate ensures the name and the ticker are well formed.
func (c *Configuration) Validate() error {
	if !isName(c.Name) {
		return errors.Wrapf(errors.ErrInvalidModel, "name %q", c.Name)
	}
	if !isTicker(c.Ticker) {
		return errors.Wrapf(errors.ErrInvalidModel, "ticker %q", c.Ticker)
	}
	return nil
}

// Copy returns a copy of the configuration.
func (c *Configuration) Copy() orm.Model {
	cpy := *c
	return &cpy
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, pkgName, &conf); err != nil {
		return nil, errors.Wrap(err, "vault configuration")
	}
	return &conf, nil
}
