package models

import "errors"

// Store-level sentinels shared by every repository implementation.
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
)
