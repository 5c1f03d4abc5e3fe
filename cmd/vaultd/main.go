package main

import (
	"fmt"
	"io"
	"os"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/spf13/cobra"
)

func main() {
	env, err := loadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load environment: %s\n", err)
		os.Exit(2)
	}
	if err := newRootCmd(env, os.Stdout).Execute(); err != nil {
		code, log := errors.ABCIInfo(err, env.Debug)
		fmt.Fprintf(os.Stderr, "Error (code %d): %s\n", code, log)
		os.Exit(1)
	}
}

// newRootCmd returns the vaultd command tree. Flags default to the values
// read from the environment.
func newRootCmd(env Env, out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "vaultd",
		Short:         "Multi owner vault",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOutput(out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.Home, "home", env.Home, "directory to store the database and keys under")
	flags.StringVar(&opts.LogLevel, "log-level", env.LogLevel, "log filter, like info or *:debug")
	flags.StringVar(&opts.Backend, "backend", env.Backend, "database backend, goleveldb or memdb")
	flags.IntVar(&opts.CacheSize, "cache-size", env.CacheSize, "number of tree nodes kept in memory")
	flags.BoolVar(&opts.Debug, "debug", env.Debug, "do not redact internal errors")

	root.AddCommand(
		initCmd(opts),
		keysCmd(opts),
		depositCmd(opts),
		submitCmd(opts),
		approveCmd(opts),
		revokeCmd(opts),
		executeCmd(opts),
		ownerCmd(opts),
		thresholdCmd(opts),
		queryCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the application version",
			Args:  cobra.NoArgs,
			Run: func(c *cobra.Command, args []string) {
				fmt.Fprintln(c.OutOrStdout(), vault.Version())
			},
		},
	)
	return root
}
