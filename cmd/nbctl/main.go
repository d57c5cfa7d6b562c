// Command nbctl runs one-shot NationBuilder calls using the same configuration
// as the web front-end.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Adda-Baaj/nbdev/internal/app"
	"github.com/Adda-Baaj/nbdev/internal/config"
	"github.com/Adda-Baaj/nbdev/internal/logger"
	"github.com/Adda-Baaj/nbdev/internal/nbapi"
	"github.com/Adda-Baaj/nbdev/internal/web"
	"github.com/spf13/cobra"
)

// clientOpener yields a ready client and its release function.
type clientOpener func(ctx context.Context) (nbapi.Client, func() error, error)

func main() {
	var verbose bool
	root := newRootCmd(func(ctx context.Context) (nbapi.Client, func() error, error) {
		return openConfigured(ctx, verbose)
	}, os.Stdout)
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Emit structured logs to stdout")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openConfigured(ctx context.Context, verbose bool) (nbapi.Client, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	var log logger.Logger = logger.NopLogger{}
	closeLog := func() error { return nil }
	if verbose {
		zl, err := logger.Init(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("init logger: %w", err)
		}
		log, closeLog = zl, zl.Close
	}

	client, closeClient, err := app.OpenClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() error {
		err := closeClient()
		_ = closeLog()
		return err
	}, nil
}

func newRootCmd(open clientOpener, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "nbctl",
		Short:         "One-shot NationBuilder API calls",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newPeopleCmd(open, out),
		newWebhooksCmd(open, out),
		newContactsCmd(open, out),
	)
	return root
}

// withClient opens a client for the duration of fn.
func withClient(cmd *cobra.Command, open clientOpener, fn func(ctx context.Context, client nbapi.Client) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, client)
}

func printJSON(out io.Writer, v any) error {
	pretty, err := web.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, pretty)
	return err
}
