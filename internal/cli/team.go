package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/planbill/planbill/pkg/client"
	"github.com/spf13/cobra"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}

	cmd.AddCommand(newTeamListCmd())
	cmd.AddCommand(newTeamCreateCmd())
	cmd.AddCommand(newTeamDeleteCmd())

	return cmd
}

func newTeamListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := apiClient.Teams().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(teams)
			}

			table := NewTable("ID", "NAME", "PERSONAL")
			for _, t := range teams {
				table.AddRow(
					strconv.FormatInt(t.ID, 10),
					t.Name,
					strconv.FormatBool(t.IsPersonal),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newTeamCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := apiClient.Teams().Create(context.Background(), client.CreateTeamRequest{
				Name: name,
			})
			if err != nil {
				return fmt.Errorf("failed to create team: %w", err)
			}

			fmt.Printf("Created team %d (%s)\n", t.ID, t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "team name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTeamDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid team ID: %s", args[0])
			}

			if err := apiClient.Teams().Delete(context.Background(), id); err != nil {
				return fmt.Errorf("failed to delete team: %w", err)
			}

			fmt.Printf("Deleted team %d\n", id)
			return nil
		},
	}
}
