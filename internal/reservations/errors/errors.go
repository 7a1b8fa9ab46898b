package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrCorruptStore = errors.New("reservation store is corrupt")

	ErrStoreClosed = errors.New("reservation store is closed")
)
