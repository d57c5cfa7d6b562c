package main

import (
	"context"
	"io"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/nbapi"
	"github.com/spf13/cobra"
)

func newWebhooksCmd(open clientOpener, out io.Writer) *cobra.Command {
	webhooksCmd := &cobra.Command{Use: "webhooks", Short: "Webhook operations"}

	webhooksCmd.AddCommand(&cobra.Command{
		Use:   "sample",
		Short: "List a sample of webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				hooks, err := client.SampleWebhooks(ctx)
				if err != nil {
					return err
				}
				return printJSON(out, hooks)
			})
		},
	})

	var url, event string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Subscribe a URL to an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				hook, err := client.CreateWebhook(ctx, domain.NewWebhook{URL: url, Event: event})
				if err != nil {
					return err
				}
				return printJSON(out, hook)
			})
		},
	}
	createCmd.Flags().StringVarP(&url, "url", "u", "", "Callback URL (required)")
	createCmd.Flags().StringVarP(&event, "event", "e", "", "Event name (required)")
	_ = createCmd.MarkFlagRequired("url")
	_ = createCmd.MarkFlagRequired("event")
	webhooksCmd.AddCommand(createCmd)

	return webhooksCmd
}
