// Command checkout is a terminal storefront: it lists the catalog, walks a
// buyer through checkout against a running API and shows their orders.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/client"
	"storefront/internal/config"
)

var Version = "dev"

type globalFlags struct {
	apiURL  string
	token   string
	timeout time.Duration
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "checkout",
		Short:         "Browse subscriptions and check out from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.apiURL, "api", cfg.APIBaseURL, "Storefront API base URL")
	rootCmd.PersistentFlags().StringVar(&flags.token, "token", os.Getenv("STOREFRONT_TOKEN"), "Session token")
	rootCmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 15*time.Second, "Per-request timeout")

	rootCmd.AddCommand(productsCmd(flags))
	rootCmd.AddCommand(buyCmd(flags, cfg.Contacts))
	rootCmd.AddCommand(ordersCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (f *globalFlags) client(token string) *client.Client {
	opts := []client.Option{client.WithTimeout(f.timeout)}
	if token == "" {
		token = f.token
	}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(f.apiURL, opts...)
}
