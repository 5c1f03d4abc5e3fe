package main

import (
	"os"
	"path/filepath"

	"github.com/iov-one/vault/crypto"
	"github.com/iov-one/vault/errors"
	"github.com/spf13/cobra"
)

type keyOutput struct {
	Name   string `json:"name"`
	Hex    string `json:"address"`
	Bech32 string `json:"bech32"`
	Pubkey []byte `json:"pubkey"`
}

func newKeyOutput(name string, key *crypto.PrivateKey) (keyOutput, error) {
	addr := key.Address()
	b32, err := addr.Bech32(bech32Prefix)
	if err != nil {
		return keyOutput{}, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return keyOutput{Name: name, Hex: addr.String(), Bech32: b32, Pubkey: key.PublicKey()}, nil
}

func keysCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "keys",
		Short: "Manage signing keys stored in the home directory",
	}
	c.AddCommand(
		&cobra.Command{
			Use:   "generate NAME",
			Short: "Create a new ed25519 key",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				path := opts.keyPath(args[0])
				if _, err := os.Stat(path); err == nil {
					return errors.Wrapf(errors.ErrDuplicate, "key %q", args[0])
				}
				key, err := crypto.GenPrivKeyEd25519()
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
					return errors.Wrap(errors.ErrInvalidInput, err.Error())
				}
				if err := crypto.SaveKey(path, key); err != nil {
					return err
				}
				out, err := newKeyOutput(args[0], key)
				if err != nil {
					return err
				}
				return printJSON(c.OutOrStdout(), out)
			},
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Print the address of a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				key, err := opts.loadKey(args[0])
				if err != nil {
					return err
				}
				out, err := newKeyOutput(args[0], key)
				if err != nil {
					return err
				}
				return printJSON(c.OutOrStdout(), out)
			},
		},
	)
	return c
}
