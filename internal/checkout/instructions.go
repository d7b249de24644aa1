package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/config"
	"storefront/internal/models"
)

// Detail is one labelled value on an instruction panel.
type Detail struct {
	Label string
	Value string
}

// Instructions tell the buyer how to pay through a manual method.
type Instructions struct {
	Method      models.PaymentMethod
	Title       string
	Summary     string
	Details     []Detail
	ProductName string
	OrderID     string
	Amount      decimal.Decimal
	Note        string
}

// BuildInstructions renders the panel for a manual method.
func BuildInstructions(c config.Contacts, method models.PaymentMethod, productName, orderID string, amount decimal.Decimal) (Instructions, error) {
	in := Instructions{
		Method:      method,
		ProductName: productName,
		OrderID:     orderID,
		Amount:      amount,
	}
	price := amount.String()

	switch method {
	case models.PaymentMethodOMT:
		in.Title = "OMT Transfer"
		in.Summary = fmt.Sprintf("Send $%s USD via OMT and confirm on WhatsApp.", price)
		in.Details = []Detail{
			{Label: "OMT Number", Value: c.OMTNumber},
			{Label: "Recipient Name", Value: c.OMTName},
			{Label: "Amount", Value: "$" + price + " USD"},
		}
		in.Note = fmt.Sprintf("Include your Order ID %s in the transfer note/description.", orderID)
	case models.PaymentMethodWhish:
		in.Title = "Whish Money"
		in.Summary = fmt.Sprintf("Send $%s USD via Whish Money app.", price)
		in.Details = []Detail{
			{Label: "Whish Username", Value: "@" + c.WhishID},
			{Label: "Phone", Value: c.WhishPhone},
			{Label: "Amount", Value: "$" + price + " USD"},
		}
		in.Note = fmt.Sprintf("Open Whish App, Send Money to @%s, amount $%s, add note: %s", c.WhishID, price, orderID)
	case models.PaymentMethodCrypto:
		in.Title = "USDT Payment"
		in.Summary = fmt.Sprintf("Send $%s USDT (%s) to the address below.", price, c.USDTNetwork)
		in.Details = []Detail{
			{Label: "USDT Address", Value: c.USDTAddress},
			{Label: "Network", Value: c.USDTNetwork},
			{Label: "Amount", Value: "$" + price + " USDT"},
		}
		in.Note = fmt.Sprintf("Only send USDT on the %s network. Other networks will result in lost funds.", c.USDTNetwork)
	default:
		return Instructions{}, errors.Errorf("no manual instructions for %q", method)
	}
	return in, nil
}

// ChatMessage is the prefilled text sent to the storefront after a manual payment.
func ChatMessage(productName string, price decimal.Decimal, orderID, email string) string {
	return fmt.Sprintf("Hi! I just made a payment for %s ($%s). Order ID: %s. Email: %s",
		productName, price.String(), orderID, email)
}

// ChatLink is the WhatsApp deep link carrying message for number.
func ChatLink(number, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + number + "?text=" + text
}
