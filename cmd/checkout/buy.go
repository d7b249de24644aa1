package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/models"
)

// printChat hands a manual payment off by printing the chat link.
type printChat struct {
	out io.Writer
}

func (p printChat) OpenChat(_ context.Context, link string) error {
	_, err := fmt.Fprintf(p.out, "\nConfirm your payment on WhatsApp:\n  %s\n", link)
	return err
}

func buyCmd(flags *globalFlags, contacts config.Contacts) *cobra.Command {
	var (
		email       string
		method      string
		cardPM      string
		returnURL   string
		skipConfirm bool
	)
	cmd := &cobra.Command{
		Use:   "buy <product-id>",
		Short: "Check out one subscription",
		Long: `Check out one subscription.

Card payments are confirmed with the given test payment method. Manual
methods (OMT, WHISH, CRYPTO) print the transfer instructions and a
WhatsApp link to confirm the transfer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			api := flags.client("")

			listing, err := api.GetProduct(ctx, args[0])
			if err != nil {
				return err
			}

			ctrl := checkout.NewController(checkout.Deps{
				Orders:   api,
				Intents:  api,
				Payments: api,
				Chat:     printChat{out: out},
			}, contacts, nil)

			product := checkout.Product{ID: listing.ID, Name: listing.Name, Price: listing.Price}
			if err := ctrl.Open(product); err != nil {
				return err
			}
			defer ctrl.Close()
			fmt.Fprintf(out, "%s  $%s\n", product.Name, product.Price.StringFixed(2))

			if err := ctrl.SubmitEmail(email); err != nil {
				return withFieldError(ctrl, err)
			}

			m := models.PaymentMethod(strings.ToUpper(method))
			if err := ctrl.SelectMethod(ctx, m); err != nil {
				if notice := ctrl.State().Notice; notice != "" {
					return errors.Wrap(err, notice)
				}
				return err
			}
			s := ctrl.State()
			fmt.Fprintf(out, "Order %s created (%s)\n", s.OrderID, s.Method)

			if s.Step == checkout.StepManualInstructions {
				return manualPayment(ctx, out, ctrl, skipConfirm)
			}
			return cardPayment(ctx, out, ctrl, checkout.CardForm{PaymentMethod: cardPM, ReturnURL: returnURL})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email for the order confirmation")
	cmd.Flags().StringVarP(&method, "method", "m", string(models.PaymentMethodCard), "Payment method (CARD, OMT, WHISH, CRYPTO)")
	cmd.Flags().StringVar(&cardPM, "card-pm", "pm_card_visa", "Payment method token for card payments")
	cmd.Flags().StringVar(&returnURL, "return-url", "", "Return URL for card payments that need a redirect")
	cmd.Flags().BoolVar(&skipConfirm, "no-chat", false, "Do not print the WhatsApp confirmation link")
	return cmd
}

func cardPayment(ctx context.Context, out io.Writer, ctrl *checkout.Controller, form checkout.CardForm) error {
	if err := ctrl.MarkFormReady(); err != nil {
		return err
	}
	if err := ctrl.SubmitCard(ctx, form); err != nil {
		return err
	}
	s := ctrl.State()
	fmt.Fprintf(out, "Payment successful. A confirmation was sent to %s.\n", s.Email)
	return nil
}

func manualPayment(ctx context.Context, out io.Writer, ctrl *checkout.Controller, skipChat bool) error {
	in, err := ctrl.Instructions()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n%s\n\n", in.Title, in.Summary)
	for _, d := range in.Details {
		fmt.Fprintf(out, "  %-16s %s\n", d.Label+":", d.Value)
	}
	fmt.Fprintf(out, "  %-16s %s\n\n%s\n", "Order ID:", in.OrderID, in.Note)

	if skipChat {
		return nil
	}
	_, err = ctrl.HandOffToChat(ctx)
	return err
}

func withFieldError(ctrl *checkout.Controller, err error) error {
	if msg := ctrl.State().FieldError; msg != "" {
		return errors.New(msg)
	}
	return err
}
