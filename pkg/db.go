package pkg

import "strings"

// modernc.org/sqlite surfaces constraint failures as plain error strings,
// e.g. "constraint failed: FOREIGN KEY constraint failed (787)", so the
// checks below have to match on the message.

// IsForeignKeyViolationError checks if the error is a foreign key violation error
func IsForeignKeyViolationError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsUniqueViolationError checks if the error is a unique violation error
func IsUniqueViolationError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsCheckViolationError checks if the error is a CHECK constraint violation error
func IsCheckViolationError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "CHECK constraint failed")
}
