package domain

import "context"

// PriceSource downloads price history from an external provider.
// Fetch never fails across this boundary: any provider error is logged by the
// implementation and reported as an empty series.
type PriceSource interface {
	Fetch(ctx context.Context, symbol TickerSymbol, interval Interval) PriceSeries
}

// PriceCache is a named-table store for downloaded price history.
// Tables are write-once: Write refuses to replace an existing table.
type PriceCache interface {
	// ListTables returns the names of all cached tables, sorted
	ListTables(ctx context.Context) []string

	// Exists reports whether a table with this name is cached
	Exists(ctx context.Context, name string) bool

	// Write persists series under name. Returns false (and logs) when the
	// table already exists or the storage rejects the write.
	Write(ctx context.Context, name string, series PriceSeries) bool

	// Read returns the full table, or an empty table when absent or unreadable
	Read(ctx context.Context, name string) Table
}
