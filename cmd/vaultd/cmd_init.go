package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	vaultapp "github.com/iov-one/vault/app"
	"github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
	"github.com/spf13/cobra"
)

func initCmd(opts *options) *cobra.Command {
	var (
		genesisFile string
		params      app.GenesisParams
		owners      []string
		funds       []string
	)
	c := &cobra.Command{
		Use:   "init",
		Short: "Create a new vault from a genesis file or flags",
		Long: `Create a new vault.

Either load an existing genesis file with --genesis, or describe the vault
with flags. The genesis used is written to <home>/config/genesis.json.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			var gen *vaultapp.Genesis
			if genesisFile != "" {
				loaded, err := vaultapp.LoadGenesis(genesisFile)
				if err != nil {
					return err
				}
				gen = loaded
			} else {
				for _, o := range owners {
					addr, err := parseAddress(o)
					if err != nil {
						return err
					}
					params.Owners = append(params.Owners, addr)
				}
				for _, f := range funds {
					acct, err := parseFund(f)
					if err != nil {
						return err
					}
					params.Accounts = append(params.Accounts, acct)
				}
				created, err := app.GenInitOptions(params)
				if err != nil {
					return err
				}
				gen = created
			}

			err := opts.withApp(func(a *vaultapp.Application) error {
				return a.InitChain(*gen)
			})
			if err != nil {
				return err
			}
			if err := writeGenesis(filepath.Join(opts.Home, "config", "genesis.json"), gen); err != nil {
				return err
			}
			return printJSON(c.OutOrStdout(), gen)
		},
	}
	flags := c.Flags()
	flags.StringVar(&genesisFile, "genesis", "", "genesis file to load, other flags are ignored when set")
	flags.StringVar(&params.ChainID, "chain-id", "vault-local", "chain id signatures are bound to")
	flags.StringVar(&params.VaultName, "name", "vault", "vault name, the vault account is derived from it")
	flags.StringVar(&params.Ticker, "ticker", "IOV", "symbol of the asset held by the vault")
	flags.StringSliceVar(&owners, "owner", nil, "owner address, can be repeated")
	flags.Uint32Var(&params.ApprovalsRequired, "threshold", 1, "number of approvals required to execute")
	flags.StringSliceVar(&funds, "fund", nil, "account funded at genesis as address=amount, can be repeated")
	return c
}

// parseFund reads the address=amount form.
func parseFund(s string) (cash.GenesisAccount, error) {
	chunks := strings.SplitN(s, "=", 2)
	if len(chunks) != 2 {
		return cash.GenesisAccount{}, errors.Wrapf(errors.ErrInvalidInput, "fund %q, want address=amount", s)
	}
	addr, err := parseAddress(chunks[0])
	if err != nil {
		return cash.GenesisAccount{}, err
	}
	amount, err := strconv.ParseUint(chunks[1], 10, 64)
	if err != nil {
		return cash.GenesisAccount{}, errors.Wrapf(errors.ErrInvalidAmount, "fund %q", s)
	}
	return cash.GenesisAccount{Address: addr, Amount: amount}, nil
}

func writeGenesis(path string, gen *vaultapp.Genesis) error {
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := ioutil.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

