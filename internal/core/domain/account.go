package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies who a ledger account belongs to.
type AccountType string

const (
	Customer     AccountType = "CUSTOMER"
	Supplier     AccountType = "SUPPLIER"
	SalesRep     AccountType = "SALES_REP"
	OtherAccount AccountType = "OTHER"
)

// accountCodeSeparator splits an account code into <PRICELEVEL>-<ZONE>[-<SEQUENCE>].
const accountCodeSeparator = "-"

// LedgerAccount is a customer, supplier or internal payee tracked for invoicing and payment.
// Price level and zone are not stored: they are always derived from AccountCode.
type LedgerAccount struct {
	AccountID        string          `json:"accountID"`
	AccountCode      string          `json:"accountCode"`
	Name             string          `json:"name"`
	AccountType      AccountType     `json:"accountType"`
	CreditPeriodDays int             `json:"creditPeriodDays"`
	CreditLimit      decimal.Decimal `json:"creditLimit"` // Zero means unenforced
	Address          string          `json:"address"`
	Phone            string          `json:"phone"`
	BankDetails      string          `json:"bankDetails"`
}

// PriceLevel returns the price level encoded in the account code, or "" if none.
func (a LedgerAccount) PriceLevel() string {
	level, _ := ParseAccountCode(a.AccountCode)
	return level
}

// Zone returns the zone encoded in the account code, or "" if none.
func (a LedgerAccount) Zone() string {
	_, zone := ParseAccountCode(a.AccountCode)
	return zone
}

// ParseAccountCode extracts the price level and zone from an account code.
// Both are normalized to upper case; missing segments yield "".
func ParseAccountCode(code string) (priceLevel string, zone string) {
	parts := strings.Split(strings.TrimSpace(code), accountCodeSeparator)
	if len(parts) > 0 {
		priceLevel = NormalizePriceLevel(parts[0])
	}
	if len(parts) > 1 {
		zone = strings.ToUpper(strings.TrimSpace(parts[1]))
	}
	return priceLevel, zone
}

// NormalizePriceLevel is the canonical form used to compare price levels.
func NormalizePriceLevel(level string) string {
	return strings.ToUpper(strings.TrimSpace(level))
}
