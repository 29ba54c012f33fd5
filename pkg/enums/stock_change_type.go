package enums

import "fmt"

// StockChangeType is the direction of an inventory movement in the audit log.
type StockChangeType string

const (
	StockChangeIn  StockChangeType = "IN"
	StockChangeOut StockChangeType = "OUT"
)

var validStockChangeTypes = []StockChangeType{
	StockChangeIn,
	StockChangeOut,
}

// IsValid reports whether the value matches the canonical stock change enum.
func (s StockChangeType) IsValid() bool {
	for _, candidate := range validStockChangeTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockChangeType converts the raw string to StockChangeType.
func ParseStockChangeType(value string) (StockChangeType, error) {
	for _, candidate := range validStockChangeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock change type %q", value)
}
