package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/planbill/planbill/pkg/client"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage subscription plans",
	}

	cmd.AddCommand(newPlanListCmd())
	cmd.AddCommand(newPlanGetCmd())
	cmd.AddCommand(newPlanCreateCmd())
	cmd.AddCommand(newPlanUpdateCmd())
	cmd.AddCommand(newPlanProrateCmd())

	return cmd
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := apiClient.Plans().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(plans)
			}

			table := NewTable("ID", "NAME", "PRICE")
			for _, p := range plans {
				table.AddRow(
					strconv.FormatInt(p.ID, 10),
					p.Name,
					strconv.FormatInt(p.Price, 10),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newPlanGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid plan ID: %s", args[0])
			}

			p, err := apiClient.Plans().Get(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to get plan: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(p)
			}

			fmt.Printf("ID:    %d\n", p.ID)
			fmt.Printf("Name:  %s\n", p.Name)
			fmt.Printf("Price: %d\n", p.Price)
			return nil
		},
	}
}

func newPlanCreateCmd() *cobra.Command {
	var name string
	var price int64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a plan (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := apiClient.Plans().Create(context.Background(), client.CreatePlanRequest{
				Name:  name,
				Price: price,
			})
			if err != nil {
				return fmt.Errorf("failed to create plan: %w", err)
			}

			fmt.Printf("Created plan %d (%s, price %d)\n", p.ID, p.Name, p.Price)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "plan name")
	cmd.Flags().Int64Var(&price, "price", 0, "plan price")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlanUpdateCmd() *cobra.Command {
	var name string
	var price int64

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a plan (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid plan ID: %s", args[0])
			}

			p, err := apiClient.Plans().Update(context.Background(), id, client.UpdatePlanRequest{
				Name:  name,
				Price: price,
			})
			if err != nil {
				return fmt.Errorf("failed to update plan: %w", err)
			}

			fmt.Printf("Updated plan %d (%s, price %d)\n", p.ID, p.Name, p.Price)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "plan name")
	cmd.Flags().Int64Var(&price, "price", 0, "plan price")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlanProrateCmd() *cobra.Command {
	var currentPlanID, newPlanID int64
	var daysRemaining int

	cmd := &cobra.Command{
		Use:   "prorate",
		Short: "Compute a prorated upgrade price",
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := apiClient.Plans().ProratedUpgradePrice(
				context.Background(), currentPlanID, newPlanID, daysRemaining)
			if err != nil {
				return fmt.Errorf("failed to compute proration: %w", err)
			}

			fmt.Printf("Prorated upgrade price: %g\n", price)
			return nil
		},
	}

	cmd.Flags().Int64Var(&currentPlanID, "current", 0, "current plan ID")
	cmd.Flags().Int64Var(&newPlanID, "new", 0, "new plan ID")
	cmd.Flags().IntVar(&daysRemaining, "days", 0, "days remaining in the billing period")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}
