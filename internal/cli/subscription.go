package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Manage team subscriptions",
	}

	cmd.AddCommand(newSubscriptionActivateCmd())
	cmd.AddCommand(newSubscriptionCancelCmd())
	cmd.AddCommand(newSubscriptionListCmd())
	cmd.AddCommand(newSubscriptionOrdersCmd())
	cmd.AddCommand(newSubscriptionHistoryCmd())

	return cmd
}

func newSubscriptionActivateCmd() *cobra.Command {
	var teamID, planID int64

	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Subscribe a team to a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := apiClient.Teams().ActivateSubscription(context.Background(), teamID, planID)
			if err != nil {
				return fmt.Errorf("failed to activate subscription: %w", err)
			}

			fmt.Printf("Activated subscription %d (team %d, plan %d)\n", sub.ID, sub.TeamID, sub.PlanID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&teamID, "team", 0, "team ID")
	cmd.Flags().Int64Var(&planID, "plan", 0, "plan ID")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newSubscriptionCancelCmd() *cobra.Command {
	var teamID int64

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a team's active subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Teams().CancelSubscription(context.Background(), teamID); err != nil {
				return fmt.Errorf("failed to cancel subscription: %w", err)
			}

			fmt.Printf("Cancelled active subscription for team %d\n", teamID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&teamID, "team", 0, "team ID")
	_ = cmd.MarkFlagRequired("team")

	return cmd
}

func newSubscriptionListCmd() *cobra.Command {
	var teamID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a team's subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := apiClient.Teams().ListSubscriptions(context.Background(), teamID)
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(subs)
			}

			table := NewTable("ID", "PLAN", "STATUS", "CREATED")
			for _, s := range subs {
				table.AddRow(
					strconv.FormatInt(s.ID, 10),
					strconv.FormatInt(s.PlanID, 10),
					formatActive(s.IsActive),
					s.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int64Var(&teamID, "team", 0, "team ID")
	_ = cmd.MarkFlagRequired("team")

	return cmd
}

func newSubscriptionOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders <subscription-id>",
		Short: "List a subscription's orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid subscription ID: %s", args[0])
			}

			orders, err := apiClient.Subscriptions().Orders(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to list orders: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(orders)
			}

			table := NewTable("ID", "STATUS", "CREATED")
			for _, o := range orders {
				table.AddRow(
					strconv.FormatInt(o.ID, 10),
					formatPaid(o.Paid),
					o.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newSubscriptionHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <subscription-id>",
		Short: "Show a subscription's activation history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid subscription ID: %s", args[0])
			}

			activations, err := apiClient.Subscriptions().Activations(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to list activations: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(activations)
			}

			table := NewTable("ID", "ACTIVATED AT")
			for _, a := range activations {
				table.AddRow(
					strconv.FormatInt(a.ID, 10),
					a.ActivationDate.Format("2006-01-02 15:04"),
				)
			}
			table.Render()
			return nil
		},
	}
}
