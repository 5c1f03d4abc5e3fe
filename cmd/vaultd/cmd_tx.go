package main

import (
	"encoding/hex"
	"strconv"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/multisig"
	"github.com/spf13/cobra"
)

// txFlags are shared by all commands sending a transaction.
type txFlags struct {
	key    string
	dryRun bool
}

func (f *txFlags) register(c *cobra.Command, keyRequired bool) {
	usage := "name of the signing key"
	if !keyRequired {
		usage += ", optional"
	}
	c.Flags().StringVar(&f.key, "key", "", usage)
	c.Flags().BoolVar(&f.dryRun, "dry-run", false, "only check the transaction, nothing is stored")
}

// txCmd builds a command that sends the message returned by build.
func txCmd(opts *options, use, short string, args cobra.PositionalArgs, keyRequired bool, build func(args []string) (vault.Msg, error)) *cobra.Command {
	var f txFlags
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(c *cobra.Command, args []string) error {
			if keyRequired && f.key == "" {
				return errors.Wrap(errors.ErrUnauthorized, "--key is required")
			}
			msg, err := build(args)
			if err != nil {
				return err
			}
			return opts.deliver(c.OutOrStdout(), f.key, f.dryRun, msg)
		},
	}
	f.register(c, keyRequired)
	return c
}

func depositCmd(opts *options) *cobra.Command {
	return txCmd(opts, "deposit AMOUNT", "Pay value into the vault", cobra.ExactArgs(1), true,
		func(args []string) (vault.Msg, error) {
			amount, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrInvalidAmount, "amount %q", args[0])
			}
			return &multisig.DepositMsg{Amount: amount}, nil
		})
}

func submitCmd(opts *options) *cobra.Command {
	var (
		to    string
		value uint64
		data  string
	)
	c := txCmd(opts, "submit", "Propose a new transaction", cobra.NoArgs, true,
		func(args []string) (vault.Msg, error) {
			// no target is a pure signal proposal
			addr, err := vault.ParseAddress(to)
			if err != nil {
				return nil, errors.Wrapf(err, "address %q", to)
			}
			payload, err := hex.DecodeString(data)
			if err != nil {
				return nil, errors.Wrap(errors.ErrInvalidInput, "data is not hex encoded")
			}
			return &multisig.SubmitMsg{To: addr, Value: value, Data: payload}, nil
		})
	c.Flags().StringVar(&to, "to", "", "target address")
	c.Flags().Uint64Var(&value, "value", 0, "amount paid to the target")
	c.Flags().StringVar(&data, "data", "", "hex encoded payload delivered to the target")
	return c
}

// indexCmd builds a command acting on a single transaction.
func indexCmd(opts *options, use, short string, keyRequired bool, build func(index uint64) vault.Msg) *cobra.Command {
	return txCmd(opts, use+" INDEX", short, cobra.ExactArgs(1), keyRequired,
		func(args []string) (vault.Msg, error) {
			index, err := parseIndex(args[0])
			if err != nil {
				return nil, err
			}
			return build(index), nil
		})
}

func approveCmd(opts *options) *cobra.Command {
	return indexCmd(opts, "approve", "Approve a transaction", true, func(index uint64) vault.Msg {
		return &multisig.ApproveMsg{TxIndex: index}
	})
}

func revokeCmd(opts *options) *cobra.Command {
	return indexCmd(opts, "revoke", "Withdraw an approval", true, func(index uint64) vault.Msg {
		return &multisig.RevokeMsg{TxIndex: index}
	})
}

func executeCmd(opts *options) *cobra.Command {
	return indexCmd(opts, "execute", "Execute an approved transaction, anyone can do it", false, func(index uint64) vault.Msg {
		return &multisig.ExecuteMsg{TxIndex: index}
	})
}

func ownerCmd(opts *options) *cobra.Command {
	var threshold uint32
	c := &cobra.Command{
		Use:   "owner",
		Short: "Change the owners of the vault",
	}
	add := txCmd(opts, "add ADDRESS", "Add an owner and set the threshold", cobra.ExactArgs(1), true,
		func(args []string) (vault.Msg, error) {
			addr, err := parseAddress(args[0])
			if err != nil {
				return nil, err
			}
			return &multisig.AddOwnerMsg{Owner: addr, ApprovalsRequired: threshold}, nil
		})
	add.Flags().Uint32Var(&threshold, "threshold", 0, "number of approvals required afterwards")
	remove := txCmd(opts, "remove ADDRESS", "Remove an owner and set the threshold", cobra.ExactArgs(1), true,
		func(args []string) (vault.Msg, error) {
			addr, err := parseAddress(args[0])
			if err != nil {
				return nil, err
			}
			return &multisig.RemoveOwnerMsg{Owner: addr, ApprovalsRequired: threshold}, nil
		})
	remove.Flags().Uint32Var(&threshold, "threshold", 0, "number of approvals required afterwards")
	c.AddCommand(add, remove)
	return c
}

func thresholdCmd(opts *options) *cobra.Command {
	return txCmd(opts, "threshold N", "Set the number of approvals required", cobra.ExactArgs(1), true,
		func(args []string) (vault.Msg, error) {
			n, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrInvalidInput, "threshold %q", args[0])
			}
			return &multisig.SetThresholdMsg{ApprovalsRequired: uint32(n)}, nil
		})
}
