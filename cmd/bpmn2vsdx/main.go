// Command bpmn2vsdx converts BPMN 2.0 diagrams into Visio drawings.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mgabr90/bpmn-to-visio/internal/cli"
	"github.com/Mgabr90/bpmn-to-visio/pkg/errors"
	"github.com/Mgabr90/bpmn-to-visio/pkg/observability"
)

const (
	exitFailure     = 1
	exitBadInput    = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRoot().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func newRoot() *cobra.Command {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	// Runs ahead of the config loading in the CLI's own pre-run hook.
	next := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
			observability.SetCacheHooks(observability.NewLogHooks(c.Logger))
		}
		if next == nil {
			return nil
		}
		return next(cmd, args)
	}
	return root
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	}

	fmt.Fprintln(os.Stderr, "error:", errors.UserMessage(err))
	if errors.IsInputDefect(err) || errors.Is(err, errors.ErrCodeInvalidConfig) || errors.Is(err, errors.ErrCodeInvalidFormat) {
		return exitBadInput
	}
	return exitFailure
}
