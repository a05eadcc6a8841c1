package formatter

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/desertthunder/trackbrowse/internal/models"
)

// Currency is the currency catalog prices are quoted in.
const Currency = money.USD

// Price converts a decimal amount to [money.Money], rounding to whole cents.
func Price(amount float64) *money.Money {
	return money.New(int64(math.Round(amount*100)), Currency)
}

// FormatPrice renders amount with the currency symbol, e.g. "$0.99".
func FormatPrice(amount float64) string {
	return Price(amount).Display()
}

// InvoiceTotal sums the unit prices of items in cents.
func InvoiceTotal(items []*models.InvoiceItem) (*money.Money, error) {
	total := money.New(0, Currency)
	for _, item := range items {
		sum, err := total.Add(Price(item.UnitPrice()))
		if err != nil {
			return nil, fmt.Errorf("failed to total invoice: %w", err)
		}
		total = sum
	}
	return total, nil
}
