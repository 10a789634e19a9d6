package main

import (
	"caesar/internal/ctxlog"
	"fmt"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	ConfigPath string
	Verbose    bool

	// Set by the root command before any subcommand runs.
	Config Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "caesar",
		Short: "Encrypt, decrypt and brute force Caesar shift ciphers",
		Long: "caesar demonstrates the Caesar substitution cipher: every letter is shifted a fixed\n" +
			"number of positions along the alphabet. It is an educational tool and offers no security.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := LoadConfig(cmd.Context(), opts.ConfigPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if opts.Verbose {
				c.Log.Level = "debug"
			}

			ctx, err := ctxlog.Setup(cmd.Context(), cmd.ErrOrStderr(), "caesar", c.Log)
			if err != nil {
				return fmt.Errorf("log: %w", err)
			}
			cmd.SetContext(ctx)

			opts.Config = c
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "enable debug logging")

	root.AddCommand(transformCmd(opts, false))
	root.AddCommand(transformCmd(opts, true))
	root.AddCommand(bruteForceCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(aboutCmd())
	root.AddCommand(serveCmd(opts))

	return root
}
