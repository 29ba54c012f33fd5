package sequence

import (
	"fmt"

	"gorm.io/gorm"
)

const defaultWidth = 3

// Next allocates the next zero-padded identifier for the given table/column
// from the current numeric maximum. Two transactions racing on the same table
// can pick the same number; the primary key rejects the second insert and the
// caller retries or surfaces the conflict. Identifiers are gap-tolerant: a
// rolled-back insert simply skips a number.
func Next(tx *gorm.DB, table, column string) (string, error) {
	return NextWidth(tx, table, column, defaultWidth)
}

// NextWidth is Next with an explicit minimum pad width. Identifiers wider than
// the pad keep their natural length.
func NextWidth(tx *gorm.DB, table, column string, width int) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("transaction handle required")
	}
	if table == "" || column == "" {
		return "", fmt.Errorf("table and column required")
	}
	if width <= 0 {
		width = defaultWidth
	}

	var max int64
	query := fmt.Sprintf("COALESCE(MAX(CAST(%s AS INTEGER)), 0)", column)
	if err := tx.Table(table).Select(query).Scan(&max).Error; err != nil {
		return "", fmt.Errorf("scanning %s.%s: %w", table, column, err)
	}

	return Pad(max+1, width), nil
}

// Pad renders n left-padded with zeros to at least width digits.
func Pad(n int64, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
