package etl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/BartekS5/revetl/pkg/database"
	"github.com/BartekS5/revetl/pkg/models"
	"github.com/shopspring/decimal"
)

// DefaultTable is the table the aggregate is written to.
const DefaultTable = "revenue_by_country"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var expectedColumns = []string{"country", "total_revenue"}

// ValidTableName reports whether name can be used unquoted in every dialect.
func ValidTableName(name string) bool {
	return identifier.MatchString(name)
}

// SQLStore replaces the revenue table in a relational database. Every call
// opens its own connection and releases it before returning.
type SQLStore struct {
	Driver  string
	DSN     string
	Table   string
	dialect *dialect
}

func NewSQLStore(driver, dsn, table string) (*SQLStore, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if table == "" {
		table = DefaultTable
	}
	if !ValidTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLStore{Driver: d.name, DSN: dsn, Table: table, dialect: d}, nil
}

func (s *SQLStore) Target() string {
	return fmt.Sprintf("%s:%s", s.Driver, s.Table)
}

// Write replaces the table contents with agg inside one transaction. An
// existing table is reused only if its columns are exactly country and
// total_revenue; anything else under the same name is left untouched.
func (s *SQLStore) Write(ctx context.Context, agg models.CountryAggregate) (err error) {
	db, err := database.ConnectSQL(ctx, s.Driver, s.DSN)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrStoreUnavailable, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// 1. Inspect whatever currently holds the name
	kind, err := s.objectKind(ctx, tx)
	if err != nil {
		return err
	}

	// 2. Create or empty the table
	switch kind {
	case "":
		if _, err = tx.ExecContext(ctx, s.dialect.createTable(s.Table)); err != nil {
			return fmt.Errorf("create table %s: %w", s.Table, err)
		}
	case objectTable:
		if err = s.checkColumns(ctx, tx); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, s.dialect.deleteAll(s.Table)); err != nil {
			return fmt.Errorf("clear table %s: %w", s.Table, err)
		}
	default:
		return fmt.Errorf("%w: %s is a %s, not a table", ErrSchemaConflict, s.Table, kind)
	}

	// 3. Insert one row per country
	stmt, err := tx.PrepareContext(ctx, s.dialect.insert(s.Table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, country := range agg.Countries() {
		total := agg[country].StringFixed(CurrencyPlaces)
		if _, err = stmt.ExecContext(ctx, country, total); err != nil {
			return fmt.Errorf("insert %q: %w", country, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Fetch reads the persisted aggregate back.
func (s *SQLStore) Fetch(ctx context.Context) (models.CountryAggregate, error) {
	db, err := database.ConnectSQL(ctx, s.Driver, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, s.dialect.selectAll(s.Table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	agg := make(models.CountryAggregate)
	for rows.Next() {
		var country string
		var total decimal.Decimal
		if err := rows.Scan(&country, &total); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Table, err)
		}
		agg[country] = total.Round(CurrencyPlaces)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Table, err)
	}
	return agg, nil
}

func (s *SQLStore) objectKind(ctx context.Context, tx *sql.Tx) (string, error) {
	var raw string
	err := tx.QueryRowContext(ctx, s.dialect.objectKindQuery, s.Table).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("inspect %s: %w", s.Table, err)
	}
	return s.dialect.kindOf(raw), nil
}

func (s *SQLStore) checkColumns(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, s.dialect.columnsQuery, s.Table)
	if err != nil {
		return fmt.Errorf("inspect columns of %s: %w", s.Table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return fmt.Errorf("inspect columns of %s: %w", s.Table, err)
		}
		cols = append(cols, strings.ToLower(c))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect columns of %s: %w", s.Table, err)
	}

	sort.Strings(cols)
	if strings.Join(cols, ",") != strings.Join(expectedColumns, ",") {
		return fmt.Errorf("%w: table %s has columns [%s], want [%s]",
			ErrSchemaConflict, s.Table, strings.Join(cols, ", "), strings.Join(expectedColumns, ", "))
	}
	return nil
}
