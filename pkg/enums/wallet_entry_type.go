package enums

import "fmt"

// WalletEntryType classifies a wallet ledger row.
type WalletEntryType string

const (
	WalletEntryTypeCredit WalletEntryType = "credit"
	WalletEntryTypeDebit  WalletEntryType = "debit"
)

// IsValid reports whether the value is a known WalletEntryType.
func (w WalletEntryType) IsValid() bool {
	return w == WalletEntryTypeCredit || w == WalletEntryTypeDebit
}

// ParseWalletEntryType converts raw input into a WalletEntryType.
func ParseWalletEntryType(value string) (WalletEntryType, error) {
	switch WalletEntryType(value) {
	case WalletEntryTypeCredit:
		return WalletEntryTypeCredit, nil
	case WalletEntryTypeDebit:
		return WalletEntryTypeDebit, nil
	default:
		return "", fmt.Errorf("invalid wallet entry type %q", value)
	}
}

// WalletEntryRefType names the entity a wallet ledger row references.
type WalletEntryRefType string

const (
	WalletEntryRefTypeOrder WalletEntryRefType = "order"
	WalletEntryRefTypeTopUp WalletEntryRefType = "top_up"
)

// IsValid reports whether the value is a known WalletEntryRefType.
func (w WalletEntryRefType) IsValid() bool {
	return w == WalletEntryRefTypeOrder || w == WalletEntryRefTypeTopUp
}
