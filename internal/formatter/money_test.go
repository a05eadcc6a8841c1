package formatter

import (
	"testing"

	"github.com/desertthunder/trackbrowse/internal/models"
)

func TestMoney(t *testing.T) {
	t.Run("FormatPrice", func(t *testing.T) {
		for amount, want := range map[float64]string{0: "$0.00", 0.99: "$0.99", 1.29: "$1.29", 12.5: "$12.50"} {
			if got := FormatPrice(amount); got != want {
				t.Errorf("FormatPrice(%v): expected %s, got %s", amount, want, got)
			}
		}
	})

	t.Run("InvoiceTotal", func(t *testing.T) {
		items := []*models.InvoiceItem{
			models.NewInvoiceItem(1, "a", 0.99),
			models.NewInvoiceItem(2, "b", 0.99),
			models.NewInvoiceItem(3, "c", 0.99),
		}

		total, err := InvoiceTotal(items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total.Amount() != 297 {
			t.Errorf("expected 297 cents, got %d", total.Amount())
		}
		if total.Display() != "$2.97" {
			t.Errorf("expected $2.97, got %s", total.Display())
		}
	})

	t.Run("InvoiceTotal Of Nothing", func(t *testing.T) {
		total, err := InvoiceTotal(nil)
		if err != nil || !total.IsZero() {
			t.Errorf("expected zero total, got %v (%v)", total, err)
		}
	})
}
