package domain

import "errors"

var (
	// ErrMissingDateColumn is returned when a table has no recognizable date column
	ErrMissingDateColumn = errors.New("date column not found")

	// ErrMissingCloseColumn is returned when a table has no close price column
	ErrMissingCloseColumn = errors.New("close column not found")

	// ErrInvalidDate is returned when a date cell cannot be parsed
	ErrInvalidDate = errors.New("invalid date value")

	// ErrNonNumeric is returned when a price cell holds a non-numeric value
	ErrNonNumeric = errors.New("non-numeric price value")

	// ErrTableExists is returned when a write-once table is written twice
	ErrTableExists = errors.New("table already exists")

	// ErrInvalidFrequency is returned for an unknown financial statement frequency
	ErrInvalidFrequency = errors.New("frequency must be quarterly or annual")

	// ErrEmptySymbol is returned when a ticker symbol is blank
	ErrEmptySymbol = errors.New("ticker symbol is empty")
)
