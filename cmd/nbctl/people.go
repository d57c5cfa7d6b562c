package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Adda-Baaj/nbdev/internal/domain"
	"github.com/Adda-Baaj/nbdev/internal/nbapi"
	"github.com/spf13/cobra"
)

func newPeopleCmd(open clientOpener, out io.Writer) *cobra.Command {
	peopleCmd := &cobra.Command{Use: "people", Short: "People operations"}

	// sample
	peopleCmd.AddCommand(&cobra.Command{
		Use:   "sample",
		Short: "List a sample of people",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				people, err := client.SamplePeople(ctx)
				if err != nil {
					return err
				}
				return printJSON(out, people)
			})
		},
	})

	// create
	var first, last, email string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				p, err := client.CreatePerson(ctx, domain.NewPerson{FirstName: first, LastName: last, Email: email})
				if err != nil {
					return err
				}
				return printJSON(out, p)
			})
		},
	}
	createCmd.Flags().StringVarP(&first, "first", "f", "", "First name")
	createCmd.Flags().StringVarP(&last, "last", "l", "", "Last name")
	createCmd.Flags().StringVarP(&email, "email", "e", "", "Email")
	peopleCmd.AddCommand(createCmd)

	// update
	var updateID int
	var note string
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Set a person's note",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				p, err := client.UpdatePerson(ctx, domain.PersonUpdate{ID: updateID, Note: &note})
				if err != nil {
					return err
				}
				return printJSON(out, p)
			})
		},
	}
	updateCmd.Flags().IntVar(&updateID, "id", 0, "Person ID (required)")
	updateCmd.Flags().StringVarP(&note, "note", "n", "", "Note text")
	_ = updateCmd.MarkFlagRequired("id")
	peopleCmd.AddCommand(updateCmd)

	// delete
	var deleteID int
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				if err := client.DeletePerson(ctx, deleteID); err != nil {
					return err
				}
				_, err := fmt.Fprintf(out, "deleted person %d\n", deleteID)
				return err
			})
		},
	}
	deleteCmd.Flags().IntVar(&deleteID, "id", 0, "Person ID (required)")
	_ = deleteCmd.MarkFlagRequired("id")
	peopleCmd.AddCommand(deleteCmd)

	// match
	var matchEmail string
	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Find a person by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				p, err := client.MatchPerson(ctx, matchEmail)
				if err != nil {
					return err
				}
				return printJSON(out, p)
			})
		},
	}
	matchCmd.Flags().StringVarP(&matchEmail, "email", "e", "", "Email (required)")
	_ = matchCmd.MarkFlagRequired("email")
	peopleCmd.AddCommand(matchCmd)

	// exercise
	var exFirst, exLast, exEmail, exNote string
	exerciseCmd := &cobra.Command{
		Use:   "exercise",
		Short: "Create, update and delete a throwaway person",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, open, func(ctx context.Context, client nbapi.Client) error {
				return exercisePeople(ctx, client, out, domain.NewPerson{FirstName: exFirst, LastName: exLast, Email: exEmail}, exNote)
			})
		},
	}
	exerciseCmd.Flags().StringVar(&exFirst, "first", "Nathaniel", "First name")
	exerciseCmd.Flags().StringVar(&exLast, "last", "Waisbrot", "Last name")
	exerciseCmd.Flags().StringVar(&exEmail, "email", "nathaniel@example.org", "Email")
	exerciseCmd.Flags().StringVar(&exNote, "note", "created by nbctl exercise", "Note set during the update step")
	peopleCmd.AddCommand(exerciseCmd)

	return peopleCmd
}

// exercisePeople runs the create, update, delete round trip, stopping at the first failure.
func exercisePeople(ctx context.Context, client nbapi.Client, out io.Writer, in domain.NewPerson, note string) error {
	fmt.Fprintln(out, "Create person")
	p, err := client.CreatePerson(ctx, in)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}

	fmt.Fprintln(out, "Update person")
	if _, err := client.UpdatePerson(ctx, domain.PersonUpdate{ID: p.ID, Note: &note}); err != nil {
		return fmt.Errorf("update person: %w", err)
	}

	fmt.Fprintln(out, "Delete person")
	if err := client.DeletePerson(ctx, p.ID); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}
