package accounting

import (
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of decimal places kept for monetary amounts.
const MoneyPrecision = 2

// RoundMoney rounds an amount half away from zero to MoneyPrecision places.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPrecision)
}

// FormatMoney renders an amount with exactly MoneyPrecision decimals, e.g. "12.30".
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}

// LineTotal is quantity times unit price, rounded to money precision.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundMoney(quantity.Mul(unitPrice))
}

// InvoiceTotals holds the computed amounts of an invoice.
type InvoiceTotals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateInvoiceTotals computes subtotal - discount + tax, where tax is charged
// on the discounted amount at taxRate (0.18 means 18%).
func CalculateInvoiceTotals(lines []domain.InvoiceLine, discount, taxRate decimal.Decimal) (InvoiceTotals, error) {
	if discount.IsNegative() {
		return InvoiceTotals{}, fmt.Errorf("discount must not be negative, got %s", discount)
	}
	if taxRate.IsNegative() {
		return InvoiceTotals{}, fmt.Errorf("tax rate must not be negative, got %s", taxRate)
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	discount = RoundMoney(discount)
	if discount.GreaterThan(subtotal) {
		return InvoiceTotals{}, fmt.Errorf("discount %s exceeds subtotal %s", discount, subtotal)
	}

	taxable := subtotal.Sub(discount)
	tax := RoundMoney(taxable.Mul(taxRate))
	return InvoiceTotals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    taxable.Add(tax),
	}, nil
}

// CreditNoteAmount sums returned lines at their unit prices.
func CreditNoteAmount(lines []domain.CreditNoteLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line.Quantity, line.UnitPrice))
	}
	return total
}
