package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
)

// salesService records sales and returns. It is the only producer of
// SaleDeduction and ReturnAddition stock entries.
type salesService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	itemRepo    portsrepo.StockItemReader
	salesRepo   portsrepo.SalesWriter
	ledgerSvc   portssvc.StockLedgerWriterSvc
	creditSvc   portssvc.CreditGuardSvc
	publisher   portssvc.EventPublisher
	taxRate     decimal.Decimal
}

// SalesOption is a functional option for configuring the sales service
type SalesOption func(*salesService)

// WithTaxRate sets the flat tax rate applied to discounted subtotals.
func WithTaxRate(rate decimal.Decimal) SalesOption {
	return func(s *salesService) {
		s.taxRate = rate
	}
}

// WithSalesEventPublisher publishes sale.recorded and return.recorded events.
func WithSalesEventPublisher(p portssvc.EventPublisher) SalesOption {
	return func(s *salesService) {
		s.publisher = p
	}
}

// WithSalesClock overrides the clock used for default document dates.
func WithSalesClock(now func() time.Time) SalesOption {
	return func(s *salesService) {
		s.Now = now
	}
}

// NewSalesService creates a new sales workflow service with the provided options
func NewSalesService(
	accountRepo portsrepo.AccountReader,
	itemRepo portsrepo.StockItemReader,
	salesRepo portsrepo.SalesWriter,
	ledgerSvc portssvc.StockLedgerWriterSvc,
	creditSvc portssvc.CreditGuardSvc,
	options ...SalesOption,
) portssvc.SalesWorkflowSvc {
	svc := &salesService{
		accountRepo: accountRepo,
		itemRepo:    itemRepo,
		salesRepo:   salesRepo,
		ledgerSvc:   ledgerSvc,
		creditSvc:   creditSvc,
		taxRate:     decimal.Zero,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SalesWorkflowSvc = (*salesService)(nil)

func (s *salesService) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*domain.SaleRecord, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: a sale needs at least one line", apperrors.ErrValidation)
	}
	for i, line := range req.Lines {
		if !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line %d quantity must be positive", apperrors.ErrValidation, i)
		}
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	priceLevel := account.PriceLevel()
	lines := make([]domain.InvoiceLine, len(req.Lines))
	for i, line := range req.Lines {
		item, err := s.itemRepo.FindItemByID(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		price := ResolvePrice(*item, priceLevel)
		lines[i] = domain.InvoiceLine{
			ItemID:      item.ItemID,
			Description: item.Name,
			Quantity:    line.Quantity,
			UnitPrice:   price.Price,
			TierApplied: price.TierApplied,
			LineTotal:   accounting.LineTotal(line.Quantity, price.Price),
		}
	}

	totals, err := accounting.CalculateInvoiceTotals(lines, req.Discount, s.taxRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	credit, err := s.creditSvc.Evaluate(ctx, account.AccountID, totals.Total)
	if err != nil {
		return nil, err
	}
	if req.EnforceCreditLimit && credit.Status == domain.CreditOverLimit {
		s.LogWarn(ctx, "Sale blocked by credit limit",
			slog.String("account_id", account.AccountID),
			slog.String("projected", credit.Projected.String()),
			slog.String("limit", credit.Limit.String()))
		return nil, fmt.Errorf("%w: sale of %s would take account %s to %s against a limit of %s",
			apperrors.ErrPolicyViolation, totals.Total, account.AccountID, credit.Projected, credit.Limit)
	}

	issueDate := startOfDay(s.CurrentTime())
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	notes := fmt.Sprintf("Sale invoice %s", req.Number)
	deductions := make([]domain.AdjustmentRequest, len(lines))
	for i, line := range lines {
		deductions[i] = domain.AdjustmentRequest{
			ItemID:        line.ItemID,
			QuantityDelta: line.Quantity.Neg(),
			Type:          domain.SaleDeduction,
			Notes:         notes,
			Date:          issueDate,
		}
	}
	entries, err := s.ledgerSvc.AppendBatch(ctx, deductions)
	if err != nil {
		return nil, err
	}

	invoice := domain.Invoice{
		InvoiceID: uuid.NewString(),
		Number:    req.Number,
		AccountID: account.AccountID,
		IssueDate: issueDate,
		DueDate:   issueDate.AddDate(0, 0, account.CreditPeriodDays),
		Items:     lines,
		Subtotal:  totals.Subtotal,
		Discount:  totals.Discount,
		Tax:       totals.Tax,
		Total:     totals.Total,
		Status:    domain.InvoiceSent,
	}
	entryIDs := entryIDsOf(entries)
	saved, err := s.salesRepo.SaveSale(ctx, invoice, entryIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to submit sale, restocking",
			slog.String("invoice_number", req.Number),
			slog.String("account_id", account.AccountID))
		s.compensate(ctx, entries, domain.ReturnAddition, fmt.Sprintf("Compensation for failed sale %s", req.Number))
		return nil, apperrors.Upstream("submit sale", err)
	}

	s.LogInfo(ctx, "Sale recorded",
		slog.String("invoice_id", saved.InvoiceID),
		slog.String("invoice_number", saved.Number),
		slog.String("account_id", saved.AccountID),
		slog.String("total", saved.Total.String()),
		slog.String("credit_status", string(credit.Status)))
	s.publish(ctx, domain.TopicSaleRecorded, domain.DocumentRecordedEvent{
		DocumentID:    saved.InvoiceID,
		Number:        saved.Number,
		AccountID:     saved.AccountID,
		Amount:        saved.Total,
		StockEntryIDs: entryIDs,
		OccurredAt:    s.CurrentTime(),
	})

	return &domain.SaleRecord{
		Invoice:      *saved,
		StockEntries: entries,
		Credit:       *credit,
	}, nil
}

func (s *salesService) RecordReturn(ctx context.Context, req dto.RecordReturnRequest) (*domain.ReturnRecord, error) {
	note := domain.CreditNote{
		CreditNoteID:     uuid.NewString(),
		Number:           req.Number,
		AccountID:        req.AccountID,
		Reason:           req.Reason,
		RelatedInvoiceID: req.RelatedInvoiceID,
	}
	if err := s.prepareCreditNote(&note, req); err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID); err != nil {
		return nil, err
	}
	note.Date = startOfDay(s.CurrentTime())
	if req.Date != nil {
		note.Date = *req.Date
	}

	var entries []domain.StockAdjustmentLogEntry
	if len(note.Items) > 0 {
		notes := fmt.Sprintf("Return credit note %s", req.Number)
		additions := make([]domain.AdjustmentRequest, len(note.Items))
		for i, line := range note.Items {
			additions[i] = domain.AdjustmentRequest{
				ItemID:        line.ItemID,
				QuantityDelta: line.Quantity,
				Type:          domain.ReturnAddition,
				Notes:         notes,
				Date:          note.Date,
			}
		}
		var err error
		entries, err = s.ledgerSvc.AppendBatch(ctx, additions)
		if err != nil {
			return nil, err
		}
	}

	entryIDs := entryIDsOf(entries)
	saved, err := s.salesRepo.SaveReturn(ctx, note, entryIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to submit credit note",
			slog.String("credit_note_number", req.Number),
			slog.String("account_id", req.AccountID))
		s.compensate(ctx, entries, domain.SaleDeduction, fmt.Sprintf("Compensation for failed return %s", req.Number))
		return nil, apperrors.Upstream("submit return", err)
	}

	s.LogInfo(ctx, "Return recorded",
		slog.String("credit_note_id", saved.CreditNoteID),
		slog.String("credit_note_number", saved.Number),
		slog.String("account_id", saved.AccountID),
		slog.String("reason", string(saved.Reason)),
		slog.String("amount", saved.Amount.String()))
	s.publish(ctx, domain.TopicReturnRecorded, domain.DocumentRecordedEvent{
		DocumentID:    saved.CreditNoteID,
		Number:        saved.Number,
		AccountID:     saved.AccountID,
		Amount:        saved.Amount,
		StockEntryIDs: entryIDs,
		OccurredAt:    s.CurrentTime(),
	})

	if entries == nil {
		entries = []domain.StockAdjustmentLogEntry{}
	}
	return &domain.ReturnRecord{CreditNote: *saved, StockEntries: entries}, nil
}

// prepareCreditNote fills the items and amount of note. Only returned goods carry items.
func (s *salesService) prepareCreditNote(note *domain.CreditNote, req dto.RecordReturnRequest) error {
	if req.Reason != domain.ReturnedGoods {
		if len(req.Lines) > 0 {
			return fmt.Errorf("%w: only %s credit notes may list items", apperrors.ErrValidation, domain.ReturnedGoods)
		}
		if !req.Amount.IsPositive() {
			return fmt.Errorf("%w: credit note amount must be positive", apperrors.ErrValidation)
		}
		note.Amount = accounting.RoundMoney(req.Amount)
		return nil
	}

	if len(req.Lines) == 0 {
		return fmt.Errorf("%w: a %s credit note must list the returned items", apperrors.ErrValidation, domain.ReturnedGoods)
	}
	note.Items = make([]domain.CreditNoteLine, len(req.Lines))
	for i, line := range req.Lines {
		if !line.Quantity.IsPositive() {
			return fmt.Errorf("%w: line %d quantity must be positive", apperrors.ErrValidation, i)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d unit price must not be negative", apperrors.ErrValidation, i)
		}
		note.Items[i] = domain.CreditNoteLine{ItemID: line.ItemID, Quantity: line.Quantity, UnitPrice: line.UnitPrice}
	}
	note.Amount = accounting.CreditNoteAmount(note.Items)
	return nil
}

// compensate posts the inverse of entries after the persistence service
// rejected the document they belonged to.
func (s *salesService) compensate(ctx context.Context, entries []domain.StockAdjustmentLogEntry, adjType domain.AdjustmentType, notes string) {
	if len(entries) == 0 {
		return
	}
	reqs := make([]domain.AdjustmentRequest, len(entries))
	for i, e := range entries {
		reqs[i] = domain.AdjustmentRequest{
			ItemID:        e.ItemID,
			QuantityDelta: e.QuantityAdjusted.Neg(),
			Type:          adjType,
			Notes:         notes,
			Date:          e.Date,
			AllowNegative: true,
		}
	}
	if _, err := s.ledgerSvc.AppendBatch(ctx, reqs); err != nil {
		s.LogError(ctx, err, "Failed to compensate stock entries", slog.Int("entries", len(entries)))
	}
}

func (s *salesService) publish(ctx context.Context, topic string, event domain.DocumentRecordedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, event.AccountID, event); err != nil && !errors.Is(err, context.Canceled) {
		s.LogError(ctx, err, "Failed to publish document event", slog.String("topic", topic), slog.String("document_id", event.DocumentID))
	}
}

func entryIDsOf(entries []domain.StockAdjustmentLogEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}
	return ids
}
