package enums

import "fmt"

// ScanTokenType distinguishes read-only file tokens from status-transition tokens.
type ScanTokenType string

const (
	ScanTokenTypeFile   ScanTokenType = "file"
	ScanTokenTypeStatus ScanTokenType = "status"
)

var validScanTokenTypes = []ScanTokenType{
	ScanTokenTypeFile,
	ScanTokenTypeStatus,
}

// String implements fmt.Stringer.
func (s ScanTokenType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScanTokenType.
func (s ScanTokenType) IsValid() bool {
	for _, candidate := range validScanTokenTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScanTokenType converts raw input into a ScanTokenType.
func ParseScanTokenType(value string) (ScanTokenType, error) {
	for _, candidate := range validScanTokenTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid scan token type %q", value)
}
