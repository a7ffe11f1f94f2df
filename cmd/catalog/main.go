package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"assetcatalog/internal/domain"
	"assetcatalog/internal/logging"
)

// Exit codes
const (
	exitOK          = 0
	exitServerFault = 1
	exitClientFault = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	a := &app{out: os.Stdout}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(os.Stderr, "error:", err)
	code := exitCode(err)
	if code == exitServerFault {
		logging.Error().Err(err).Str("command", a.command).Msg("command_failed")
	}
	return code
}

// usageError marks a malformed invocation
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// exitCode maps caller mistakes to 2 and everything else to 1
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue usageError
	if errors.As(err, &ue) || domain.IsClientFault(err) {
		return exitClientFault
	}
	return exitServerFault
}
