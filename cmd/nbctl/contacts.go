package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/nbapi"
	"github.com/spf13/cobra"
)

func newContactsCmd(open clientOpener, out io.Writer) *cobra.Command {
	contactsCmd := &cobra.Command{Use: "contacts", Short: "Contact operations"}

	contactsCmd.AddCommand(&cobra.Command{
		Use:   "types",
		Short: "List contact types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				types, err := client.SampleContactTypes(ctx)
				if err != nil {
					return err
				}
				return printJSON(out, types)
			})
		},
	})

	var personID, typeID int
	var email string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record a contact against a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			if personID == 0 && email == "" {
				return fmt.Errorf("--person-id or --email required")
			}
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				id := personID
				if id == 0 {
					p, err := client.MatchPerson(ctx, email)
					if err != nil {
						return err
					}
					id = p.ID
				}
				c, err := client.CreateContact(ctx, domain.NewContact{PersonID: id, TypeID: typeID})
				if err != nil {
					return err
				}
				return printJSON(out, c)
			})
		},
	}
	createCmd.Flags().IntVarP(&personID, "person-id", "p", 0, "Person ID")
	createCmd.Flags().StringVarP(&email, "email", "e", "", "Resolve the person by email instead")
	createCmd.Flags().IntVarP(&typeID, "type-id", "t", 0, "Contact type ID (required)")
	_ = createCmd.MarkFlagRequired("type-id")
	contactsCmd.AddCommand(createCmd)

	return contactsCmd
}
