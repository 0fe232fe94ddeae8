package client

import (
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

func toDomainAccount(p accountPayload) (domain.LedgerAccount, error) {
	if p.ID == "" {
		return domain.LedgerAccount{}, fmt.Errorf("account without id")
	}
	return domain.LedgerAccount{
		AccountID:        p.ID,
		AccountCode:      p.AccountCode,
		Name:             p.Name,
		AccountType:      domain.AccountType(p.Type),
		CreditPeriodDays: p.CreditPeriodDays,
		CreditLimit:      p.CreditLimit.Decimal(),
		Address:          p.Address,
		Phone:            p.Phone,
		BankDetails:      p.BankDetails,
	}, nil
}

func toDomainInvoice(p invoicePayload) (domain.Invoice, error) {
	status := domain.InvoiceStatus(p.Status)
	switch status {
	case domain.InvoiceDraft, domain.InvoiceSent, domain.InvoicePaid, domain.InvoiceOverdue, domain.InvoiceCancelled:
	default:
		return domain.Invoice{}, fmt.Errorf("invoice %s has unknown status %q", p.ID, p.Status)
	}
	lines := make([]domain.InvoiceLine, len(p.Items))
	for i, l := range p.Items {
		lines[i] = domain.InvoiceLine{
			ItemID:      l.ItemID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.Decimal(),
			TierApplied: l.TierApplied,
			LineTotal:   l.LineTotal.Decimal(),
		}
	}
	return domain.Invoice{
		InvoiceID: p.ID,
		Number:    p.Number,
		AccountID: p.AccountID,
		IssueDate: p.IssueDate.Time(),
		DueDate:   p.DueDate.Time(),
		Items:     lines,
		Subtotal:  p.Subtotal.Decimal(),
		Discount:  p.Discount.Decimal(),
		Tax:       p.Tax.Decimal(),
		Total:     p.Total.Decimal(),
		Status:    status,
	}, nil
}

func toInvoicePayload(inv domain.Invoice) invoicePayload {
	lines := make([]invoiceLinePayload, len(inv.Items))
	for i, l := range inv.Items {
		lines[i] = invoiceLinePayload{
			ItemID:      l.ItemID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   Money(l.UnitPrice),
			TierApplied: l.TierApplied,
			LineTotal:   Money(l.LineTotal),
		}
	}
	return invoicePayload{
		ID:        inv.InvoiceID,
		Number:    inv.Number,
		AccountID: inv.AccountID,
		IssueDate: Date(inv.IssueDate),
		DueDate:   Date(inv.DueDate),
		Items:     lines,
		Subtotal:  Money(inv.Subtotal),
		Discount:  Money(inv.Discount),
		Tax:       Money(inv.Tax),
		Total:     Money(inv.Total),
		Status:    string(inv.Status),
	}
}

func toDomainReceipt(p receiptPayload) domain.Receipt {
	return domain.Receipt{
		ReceiptID:      p.ID,
		Number:         p.Number,
		AccountID:      p.AccountID,
		Date:           p.Date.Time(),
		AmountReceived: p.AmountReceived.Decimal(),
		Method:         p.Method,
		BankName:       p.BankName,
		Reference:      p.Reference,
	}
}

func toDomainCreditNote(p creditNotePayload) domain.CreditNote {
	var lines []domain.CreditNoteLine
	for _, l := range p.Items {
		lines = append(lines, domain.CreditNoteLine{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice.Decimal()})
	}
	return domain.CreditNote{
		CreditNoteID:     p.ID,
		Number:           p.Number,
		AccountID:        p.AccountID,
		Date:             p.Date.Time(),
		Amount:           p.Amount.Decimal(),
		Reason:           domain.CreditNoteReason(p.Reason),
		Items:            lines,
		RelatedInvoiceID: p.RelatedInvoiceID,
	}
}

func toCreditNotePayload(n domain.CreditNote) creditNotePayload {
	var lines []creditNoteLinePayload
	for _, l := range n.Items {
		lines = append(lines, creditNoteLinePayload{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: Money(l.UnitPrice)})
	}
	return creditNotePayload{
		ID:               n.CreditNoteID,
		Number:           n.Number,
		AccountID:        n.AccountID,
		Date:             Date(n.Date),
		Amount:           Money(n.Amount),
		Reason:           string(n.Reason),
		Items:            lines,
		RelatedInvoiceID: n.RelatedInvoiceID,
	}
}
