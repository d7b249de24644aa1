package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"storefront/internal/client"
	"storefront/internal/dashboard"
)

func ordersCmd(flags *globalFlags) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show your order history",
		Long: `Show your order history.

Pass --token, set STOREFRONT_TOKEN, or sign in with --email and --password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			token := ""
			if email != "" {
				t, err := flags.client("").Login(ctx, email, password)
				if err != nil {
					return errors.Wrap(err, "sign in")
				}
				token = t
			}

			orders, err := flags.client(token).DashboardOrders(ctx)
			if errors.Is(err, client.ErrSignInRequired) {
				return errors.New("not signed in: pass --token or --email and --password")
			}
			if err != nil {
				return err
			}

			sum := dashboard.Summarize(orders)
			fmt.Fprintf(out, "%d orders, %d active\n", sum.Total, sum.Completed)
			for _, r := range sum.Rows {
				fmt.Fprintf(out, "%-36s %-24s $%-8s %-6s %-21s %s\n",
					r.OrderID, r.ProductName, r.Amount.StringFixed(2), r.PaymentMethod,
					r.StatusLabel, r.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}
