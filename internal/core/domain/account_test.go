package domain_test

import (
	"testing"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseAccountCode(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantLevel string
		wantZone  string
	}{
		{name: "level zone and sequence", code: "A-NORTH-0012", wantLevel: "A", wantZone: "NORTH"},
		{name: "lower case is normalized", code: "wholesale-east", wantLevel: "WHOLESALE", wantZone: "EAST"},
		{name: "level only", code: "B", wantLevel: "B", wantZone: ""},
		{name: "no level", code: "-SOUTH-1", wantLevel: "", wantZone: "SOUTH"},
		{name: "empty code", code: "", wantLevel: "", wantZone: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, zone := domain.ParseAccountCode(tt.code)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantZone, zone)

			acc := domain.LedgerAccount{AccountCode: tt.code}
			assert.Equal(t, tt.wantLevel, acc.PriceLevel())
			assert.Equal(t, tt.wantZone, acc.Zone())
		})
	}
}

func TestInvoice_CountsTowardBalance(t *testing.T) {
	for _, status := range []domain.InvoiceStatus{domain.InvoiceDraft, domain.InvoiceSent, domain.InvoicePaid, domain.InvoiceOverdue} {
		assert.True(t, domain.Invoice{Status: status}.CountsTowardBalance(), string(status))
	}
	assert.False(t, domain.Invoice{Status: domain.InvoiceCancelled}.CountsTowardBalance())
}
