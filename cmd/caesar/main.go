package main

import (
	"caesar/internal/ctxlog"
	"caesar/internal/rec"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func run(ctx context.Context, args []string) (err error) {
	defer rec.Error(&err)

	root := newRootCmd()
	root.SetArgs(args)
	err = root.ExecuteContext(ctx)

	if cerr := ctxlog.Shutdown(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close log file: %w", cerr))
	}
	return err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx, os.Args[1:])
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
