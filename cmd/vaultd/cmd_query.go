package main

import (
	"github.com/iov-one/vault"
	vaultapp "github.com/iov-one/vault/app"
	"github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/spf13/cobra"
)

// queryFunc reads a value from the committed state.
type queryFunc func(db vault.ReadOnlyKVStore, args []string) (interface{}, error)

func queryCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "query",
		Short: "Read the vault state",
	}
	sub := func(use, short string, args cobra.PositionalArgs, fn queryFunc) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(c *cobra.Command, args []string) error {
				var res interface{}
				err := opts.withApp(func(a *vaultapp.Application) error {
					return a.View(func(db vault.ReadOnlyKVStore) error {
						var err error
						res, err = fn(db, args)
						return err
					})
				})
				if err != nil {
					return err
				}
				return printJSON(c.OutOrStdout(), res)
			},
		}
	}

	c.AddCommand(
		sub("owners", "List current owners and the threshold", cobra.NoArgs, queryOwners),
		sub("transactions", "List all transactions", cobra.NoArgs, func(db vault.ReadOnlyKVStore, args []string) (interface{}, error) {
			return reader().Transactions(db)
		}),
		sub("transaction INDEX", "Show a single transaction", cobra.ExactArgs(1), queryTransaction),
		sub("approval INDEX [ADDRESS]", "Show who approved a transaction, or whether given owner did", cobra.RangeArgs(1, 2), queryApproval),
		sub("balance [ADDRESS]", "Show the balance of the vault or of given account", cobra.MaximumNArgs(1), queryBalance),
		sub("events", "List all recorded events in order", cobra.NoArgs, queryEvents),
		sub("history", "List executed transactions", cobra.NoArgs, func(db vault.ReadOnlyKVStore, args []string) (interface{}, error) {
			return reader().History(db)
		}),
	)
	return c
}

type ownersOutput struct {
	Owners            []vault.Address `json:"owners"`
	ApprovalsRequired uint32          `json:"approvals_required"`
}

func queryOwners(db vault.ReadOnlyKVStore, args []string) (interface{}, error) {
	r := reader()
	owners, err := r.Owners(db)
	if err != nil {
		return nil, err
	}
	threshold, err := r.ApprovalsRequired(db)
	if err != nil {
		return nil, err
	}
	return ownersOutput{Owners: owners, ApprovalsRequired: threshold}, nil
}

func queryTransaction(db vault.ReadOnlyKVStore, args []string) (interface{}, error) {
	index, err := parseIndex(args[0])
	if err != nil {
		return nil, err
	}
	return reader().Transaction(db, index)
}

type approvalOutput struct {
	Index     uint64          `json:"index"`
	Approvers []vault.Address `json:"approvers,omitempty"`
	Owner     vault.Address   `json:"owner,omitempty"`
	Approved  *bool           `json:"approved,omitempty"`
}

func queryApproval(db vault.ReadOnlyKVStore, args []string) (interface{}, error) {
	index, err := parseIndex(args[0])
	if err != nil {
		return nil, err
	}
	r := reader()
	if len(args) == 1 {
		approvers, err := r.Approvers(db, index)
		if err != nil {
			return nil, err
		}
		return approvalOutput{Index: index, Approvers: approvers}, nil
	}
	owner, err := parseAddress(args[1])
	if err != nil {
		return nil, err
	}
	approved, err := r.IsApproved(db, index, owner)
	if err != nil {
		return nil, err
	}
	return approvalOutput{Index: index, Owner: owner, Approved: &approved}, nil
}

type balanceOutput struct {
	Address vault.Address `json:"address,omitempty"`
	Amount  uint64        `json:"amount"`
}

func queryBalance(db vault.ReadOnlyKVStore, args []string) (interface{}, error) {
	if len(args) == 0 {
		amount, err := reader().Balance(db)
		if err != nil {
			return nil, err
		}
		return balanceOutput{Amount: amount}, nil
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return nil, err
	}
	amount, err := app.CashControl().Balance(db, addr)
	if err != nil {
		return nil, err
	}
	return balanceOutput{Address: addr, Amount: amount}, nil
}

func queryEvents(db vault.ReadOnlyKVStore, args []string) (interface{}, error) {
	events, err := reader().Events(db)
	if err != nil {
		return nil, err
	}
	out := make([]eventOutput, 0, len(events))
	for _, e := range events {
		out = append(out, eventOutput{Name: e.EventName(), Event: e})
	}
	return out, nil
}
