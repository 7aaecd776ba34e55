package enums

import "fmt"

// LedgerEntryType distinguishes wallet debits from credits.
type LedgerEntryType string

const (
	LedgerEntryTypeDebit  LedgerEntryType = "debit"
	LedgerEntryTypeCredit LedgerEntryType = "credit"
)

// IsValid reports whether the value is a known LedgerEntryType.
func (t LedgerEntryType) IsValid() bool {
	return t == LedgerEntryTypeDebit || t == LedgerEntryTypeCredit
}

// ParseLedgerEntryType converts raw input into a LedgerEntryType.
func ParseLedgerEntryType(value string) (LedgerEntryType, error) {
	switch LedgerEntryType(value) {
	case LedgerEntryTypeDebit:
		return LedgerEntryTypeDebit, nil
	case LedgerEntryTypeCredit:
		return LedgerEntryTypeCredit, nil
	}
	return "", fmt.Errorf("invalid ledger entry type %q", value)
}
