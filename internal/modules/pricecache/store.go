// Package pricecache persists downloaded price history in SQLite, one
// write-once table per "{ticker}_{interval}" key.
package pricecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/pfa/internal/database"
	"github.com/aristath/pfa/internal/domain"
)

// DateLayout is the text format of the Date column
const DateLayout = "2006-01-02 15:04:05"

// Columns is the schema every cached price table is created with
var Columns = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// Store implements domain.PriceCache on top of a SQLite database
type Store struct {
	db  *database.DB
	log zerolog.Logger
}

// TableInfo summarizes one cached table
type TableInfo struct {
	Name      string `json:"name"`
	Rows      int64  `json:"rows"`
	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`
}

// NewStore creates a cache store. A nil database is a configuration error.
func NewStore(db *database.DB, log zerolog.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("price cache requires a database")
	}
	return &Store{
		db:  db,
		log: log.With().Str("component", "price_cache").Logger(),
	}, nil
}

// ListTables returns the names of all cached tables, sorted
func (s *Store) ListTables(ctx context.Context) []string {
	names, err := s.listTables(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list cached tables")
		return []string{}
	}
	return names
}

func (s *Store) listTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sqlite_master: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Exists reports whether a table with this name is cached
func (s *Store) Exists(ctx context.Context, name string) bool {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		s.log.Error().Err(err).Str("table", name).Msg("Failed to check table existence")
		return false
	}
	return count > 0
}

// Write persists series under name, failing if the table already exists.
// Failures are logged and reported as false.
func (s *Store) Write(ctx context.Context, name string, series domain.PriceSeries) bool {
	if series.Empty() {
		s.log.Warn().Str("table", name).Msg("Refusing to cache empty series")
		return false
	}

	if err := s.write(ctx, name, series.Sorted()); err != nil {
		if errors.Is(err, domain.ErrTableExists) {
			s.log.Warn().Str("table", name).Msg("Table already cached, keeping existing data")
		} else {
			s.log.Error().Err(err).Str("table", name).Msg("Failed to cache price series")
		}
		return false
	}

	s.log.Info().Str("table", name).Int("rows", series.Len()).Msg("Price series saved to cache")
	return true
}

func (s *Store) write(ctx context.Context, name string, series domain.PriceSeries) error {
	table := database.QuoteIdentifier(name)

	return database.WithTransaction(ctx, s.db.Conn(), func(tx *sql.Tx) error {
		// No IF NOT EXISTS: the CREATE itself is the write-once guard
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (
			Date TEXT NOT NULL,
			Open REAL,
			High REAL,
			Low REAL,
			Close REAL,
			Volume REAL
		)`, table))
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("%s: %w", name, domain.ErrTableExists)
			}
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}

		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
			"INSERT INTO %s (Date, Open, High, Low, Close, Volume) VALUES (?, ?, ?, ?, ?, ?)", table))
		if err != nil {
			return fmt.Errorf("failed to prepare insert for %s: %w", name, err)
		}
		defer stmt.Close()

		for _, bar := range series.Bars {
			_, err := stmt.ExecContext(ctx,
				bar.Date.UTC().Format(DateLayout),
				nullable(bar.Open),
				nullable(bar.High),
				nullable(bar.Low),
				nullable(bar.Close),
				nullable(bar.Volume),
			)
			if err != nil {
				return fmt.Errorf("failed to insert bar %s into %s: %w", bar.Date.Format(DateLayout), name, err)
			}
		}
		return nil
	})
}

// nullable stores missing values as NULL
func nullable(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// Read returns the full table, or an empty table when absent or unreadable
func (s *Store) Read(ctx context.Context, name string) domain.Table {
	if !s.Exists(ctx, name) {
		s.log.Warn().Str("table", name).Msg("Table not in cache")
		return domain.Table{}
	}

	table, err := s.read(ctx, name)
	if err != nil {
		s.log.Warn().Err(err).Str("table", name).Msg("Failed to read cached table")
		return domain.Table{}
	}
	return table
}

func (s *Store) read(ctx context.Context, name string) (domain.Table, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+database.QuoteIdentifier(name))
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}

	table := domain.Table{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return domain.Table{}, fmt.Errorf("failed to scan row of %s: %w", name, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}

	return table, rows.Err()
}

// Drop removes one cached table. Dropping an absent table is not an error.
func (s *Store) Drop(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+database.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", name, err)
	}
	s.log.Info().Str("table", name).Msg("Cached table dropped")
	return nil
}

// Clear drops every cached table and returns how many were removed
func (s *Store) Clear(ctx context.Context) (int, error) {
	names, err := s.listTables(ctx)
	if err != nil {
		return 0, err
	}
	for i, name := range names {
		if err := s.Drop(ctx, name); err != nil {
			return i, err
		}
	}
	return len(names), nil
}

// Describe returns row counts and date ranges for every cached table.
// Tables without a Date column are listed with their row count only.
func (s *Store) Describe(ctx context.Context) ([]TableInfo, error) {
	names, err := s.listTables(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]TableInfo, 0, len(names))
	for _, name := range names {
		table := database.QuoteIdentifier(name)
		info := TableInfo{Name: name}

		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&info.Rows); err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", name, err)
		}

		var first, last sql.NullString
		err := s.db.QueryRowContext(ctx, "SELECT MIN(Date), MAX(Date) FROM "+table).Scan(&first, &last)
		if err == nil {
			info.FirstDate = first.String
			info.LastDate = last.String
		}

		infos = append(infos, info)
	}
	return infos, nil
}

// Checkpoint folds the write-ahead log back into the database file
func (s *Store) Checkpoint(ctx context.Context) error {
	return s.db.WALCheckpoint(ctx, "TRUNCATE")
}

// Stats returns size statistics of the cache database
func (s *Store) Stats(ctx context.Context) (*database.Stats, error) {
	return s.db.GetStats(ctx)
}

var _ domain.PriceCache = (*Store)(nil)
