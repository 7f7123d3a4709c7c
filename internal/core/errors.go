package core

import "errors"

var (
	// ErrEmptyPaste is returned when the pasted text is blank after trimming.
	ErrEmptyPaste = errors.New("empty paste: paste tabular text first")

	// ErrPasteTooLarge is returned when the text exceeds the configured limit.
	ErrPasteTooLarge = errors.New("paste too large")

	// ErrNoRows is returned when parsing yields no rows at all.
	ErrNoRows = errors.New("no data rows found")

	// ErrUnknownCollection is returned when the target collection does not exist.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrUnknownRecordType is returned when the record type does not exist.
	ErrUnknownRecordType = errors.New("unknown record type")

	// ErrInvalidCatalog is returned for catalog files that fail validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
