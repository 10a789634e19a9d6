package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// inputText joins the positional arguments, or reads stdin when there are none.
// A single trailing newline from stdin is dropped.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s := string(b)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}
