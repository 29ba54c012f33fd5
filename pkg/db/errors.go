package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint. When constraintName is provided, the helper looks for the
// constraint text in the error message. Works for both Postgres and the
// sqlite driver used in tests.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// UniqueViolationColumn returns the first of the candidate column names
// mentioned in a unique-violation error, or "" when the error is not a
// unique violation. Both the Postgres constraint-name message and the
// sqlite column-path message carry the column token.
func UniqueViolationColumn(err error, columns ...string) string {
	if !IsUniqueViolation(err, "") {
		return ""
	}
	msg := err.Error()
	for _, column := range columns {
		if strings.Contains(msg, column) {
			return column
		}
	}
	return ""
}
