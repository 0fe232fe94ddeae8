package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
)

// SalesWorkflowSvc is the only producer of sale and return stock entries.
type SalesWorkflowSvc interface {
	// RecordSale prices the lines, checks credit, deducts stock and submits the invoice.
	RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*domain.SaleRecord, error)

	// RecordReturn restocks returned goods and submits the credit note.
	RecordReturn(ctx context.Context, req dto.RecordReturnRequest) (*domain.ReturnRecord, error)
}
