package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iov-one/vault"
	vaultapp "github.com/iov-one/vault/app"
	"github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/multisig"
	"github.com/iov-one/vault/x/sigs"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

// bech32Prefix is the human readable part of displayed bech32 addresses.
const bech32Prefix = "vault"

// options are the global flags shared by all commands.
type options struct {
	Home      string
	LogLevel  string
	Backend   string
	CacheSize int
	Debug     bool
}

func (o *options) logger() (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	logger, err := tmflags.ParseLogLevel(o.LogLevel, logger, "info")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return logger, nil
}

// withApp opens the application stored in the home directory for the
// duration of fn.
func (o *options) withApp(fn func(a *vaultapp.Application) error) error {
	logger, err := o.logger()
	if err != nil {
		return err
	}
	a, close, err := app.Application(app.Config{
		Home:      o.Home,
		Backend:   o.Backend,
		CacheSize: o.CacheSize,
		Debug:     o.Debug,
	}, logger)
	if err != nil {
		return err
	}
	defer close()
	return fn(a)
}

func (o *options) keyPath(name string) string {
	return filepath.Join(o.Home, "keys", name+".key")
}

func (o *options) loadKey(name string) (*crypto.PrivateKey, error) {
	if name == "" {
		return nil, nil
	}
	key, err := crypto.LoadKey(o.keyPath(name))
	if err != nil {
		return nil, errors.Wrapf(err, "key %q", name)
	}
	return key, nil
}

// deliver signs the message with the named key, if any, and delivers it.
// With dryRun set the transaction is only checked.
func (o *options) deliver(out io.Writer, keyName string, dryRun bool, msg vault.Msg) error {
	key, err := o.loadKey(keyName)
	if err != nil {
		return err
	}
	return o.withApp(func(a *vaultapp.Application) error {
		tx := app.NewTx(msg)
		if key != nil {
			chainID, err := a.ChainID()
			if err != nil {
				return err
			}
			var nonce int64
			err = a.View(func(db vault.ReadOnlyKVStore) error {
				var err error
				nonce, err = sigs.NextNonce(db, key.Address())
				return err
			})
			if err != nil {
				return err
			}
			sig, err := sigs.SignTx(key, tx, chainID, nonce)
			if err != nil {
				return err
			}
			tx.Signatures = append(tx.Signatures, sig)
		}
		bz, err := tx.Marshal()
		if err != nil {
			return err
		}

		if dryRun {
			res, err := a.CheckTx(bz)
			if err != nil {
				return err
			}
			return printJSON(out, checkOutput{OK: true, Log: res.Log})
		}

		res, err := a.DeliverTx(bz)
		if err != nil {
			return err
		}
		return printJSON(out, newDeliverOutput(res))
	})
}

type checkOutput struct {
	OK  bool   `json:"ok"`
	Log string `json:"log,omitempty"`
}

type deliverOutput struct {
	Data   string        `json:"data,omitempty"`
	Log    string        `json:"log,omitempty"`
	Events []eventOutput `json:"events"`
}

type eventOutput struct {
	Name  string      `json:"name"`
	Event vault.Event `json:"event"`
}

func newDeliverOutput(res *vault.DeliverResult) deliverOutput {
	out := deliverOutput{
		Log:    res.Log,
		Events: make([]eventOutput, 0, len(res.Events)),
	}
	if len(res.Data) != 0 {
		out.Data = hex.EncodeToString(res.Data)
	}
	for _, e := range res.Events {
		out.Events = append(out.Events, eventOutput{Name: e.EventName(), Event: e})
	}
	return out
}

func printJSON(out io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	_, err = fmt.Fprintln(out, string(raw))
	return err
}

func parseIndex(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "transaction index %q", s)
	}
	return n, nil
}

func parseAddress(s string) (vault.Address, error) {
	addr, err := vault.ParseAddress(s)
	if err != nil {
		return nil, errors.Wrapf(err, "address %q", s)
	}
	if addr == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}
	return addr, nil
}

// reader returns the read surface of the vault used by all query commands.
func reader() multisig.Reader {
	return multisig.NewReader(app.CashControl())
}
