package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/services"
)

func productsCmd(flags *globalFlags) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the subscription catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := flags.client("").ListProducts(cmd.Context(), category)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(listings) == 0 {
				fmt.Fprintln(out, "No products found.")
				return nil
			}
			for _, l := range listings {
				fmt.Fprintf(out, "%-28s %-12s $%-8s %s\n", l.ID, l.Category, l.Price.StringFixed(2), wasPrice(l))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", services.AllCategories, "Only list this category")
	return cmd
}

func wasPrice(l services.Listing) string {
	if l.OriginalPrice == nil {
		return ""
	}
	return fmt.Sprintf("(was $%s, save %s)", l.OriginalPrice.String(), l.Save)
}
