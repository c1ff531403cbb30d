package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Manage orders",
	}

	cmd.AddCommand(newOrderPayCmd())

	return cmd
}

func newOrderPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <order-id>",
		Short: "Mark an order as paid (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid order ID: %s", args[0])
			}

			o, err := apiClient.Subscriptions().PayOrder(context.Background(), id)
			if err != nil {
				return fmt.Errorf("failed to pay order: %w", err)
			}

			fmt.Printf("Order %d marked as paid\n", o.ID)
			return nil
		},
	}
}
