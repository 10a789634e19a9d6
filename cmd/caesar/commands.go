package main

import (
	"caesar/internal/caesar"
	"caesar/internal/ctxlog"
	"caesar/internal/rec"
	"caesar/internal/server"
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"
)

// Number of leading characters described by --details.
const detailsLimit = 10

func transformCmd(rootOpts *globalOptions, decrypt bool) *cobra.Command {
	var shiftFlag string
	var details bool

	dir := caesar.Encrypt
	cmdShort := "Encrypt text"
	if decrypt {
		dir = caesar.Decrypt
		cmdShort = "Decrypt text"
	}

	cmd := &cobra.Command{
		Use:   dir.String() + " [text...]",
		Short: cmdShort,
		Long:  cmdShort + " given as arguments, or read from stdin when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.Get(cmd.Context())

			shift := *rootOpts.Config.Shift
			if cmd.Flags().Changed("shift") {
				var err error
				shift, err = caesar.ParseShift(shiftFlag)
				if err != nil {
					return err
				}
			}

			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				logger.Warn("empty input", "direction", dir)
			}

			out, err := caesar.Transform(text, shift, dir)
			if err != nil {
				return err
			}
			logger.Debug("transformed text", "direction", dir, "shift", shift, "len", len(text))

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, out)

			if details {
				pairs, err := caesar.Mapping(text, shift, dir, detailsLimit)
				if err != nil {
					return err
				}
				fmt.Fprintln(w)
				fmt.Fprintf(w, "Shift value: %d\n", shift)
				fmt.Fprintf(w, "Character mapping (first %d characters):\n", detailsLimit)
				for _, p := range pairs {
					fmt.Fprintf(w, "  '%s' -> '%s'\n", p.From, p.To)
				}
				fmt.Fprintln(w)
				printStats(w, caesar.Analyze(text))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&shiftFlag, "shift", "s", "", fmt.Sprintf("shift value (%d-%d), defaults to the configured shift", caesar.MinShift, caesar.MaxShift))
	cmd.Flags().BoolVar(&details, "details", false, "show the character mapping and text statistics")
	return cmd
}

func bruteForceCmd() *cobra.Command {
	var rank bool
	cmd := &cobra.Command{
		Use:     "bruteforce [ciphertext...]",
		Aliases: []string{"brute-force", "crack"},
		Short:   "Decrypt with every possible shift",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.Get(cmd.Context())

			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				logger.Warn("empty input")
			}

			w := cmd.OutOrStdout()
			candidates := caesar.BruteForce(text)
			if !rank {
				for _, c := range candidates {
					fmt.Fprintf(w, "Shift %2d: %s\n", c.Shift, c.Plaintext)
				}
				return nil
			}

			ranked := caesar.Rank(candidates)
			for _, c := range ranked {
				score := "-"
				if !math.IsInf(c.Score, 1) {
					score = fmt.Sprintf("%.1f", c.Score)
				}
				fmt.Fprintf(w, "Shift %2d (score %s): %s\n", c.Shift, score, c.Plaintext)
			}
			if best, ok := caesar.Guess(text); ok {
				fmt.Fprintf(w, "\nMost likely shift: %d\n", best.Shift)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&rank, "rank", false, "order candidates by how closely their letter frequencies match English")
	return cmd
}

func printStats(w io.Writer, s caesar.Stats) {
	fmt.Fprintf(w, "Total characters: %d\n", s.Total)
	fmt.Fprintf(w, "Alphabetic characters: %d\n", s.Alphabetic)
	fmt.Fprintf(w, "Non-alphabetic characters: %d\n", s.NonAlphabetic)
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [text...]",
		Short: "Count total, alphabetic and non-alphabetic characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), caesar.Analyze(text))
			return nil
		},
	}
}

func aboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Explain how the cipher works and why it is insecure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), caesar.About)
			return err
		},
	}
}

func serveCmd(rootOpts *globalOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cipher tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := rootOpts.Config.Server
			if cmd.Flags().Changed("port") {
				c.Port = port
			}
			if err := serve(cmd.Context(), c); err != nil {
				return err
			}
			ctxlog.Get(cmd.Context()).Info("server gracefully stopped")
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port, overrides the configured port")
	return cmd
}

func serve(ctx context.Context, c server.Config) (err error) {
	defer rec.Wrap(&err, "serve: %w")

	logger := ctxlog.Get(ctx)

	logger.Info("starting server")
	srv := server.New(c)

	return srv.Run(ctx)
}
