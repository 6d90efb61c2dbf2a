package etl

import (
	"fmt"
	"strings"

	"github.com/BartekS5/revetl/pkg/database"
)

// Object kinds returned by a dialect's catalog lookup.
const (
	objectTable = "table"
	objectView  = "view"
)

// dialect holds the SQL that differs between the supported stores.
type dialect struct {
	name string
	// placeholder returns the bind marker for the n-th (1-based) argument.
	placeholder func(n int) string
	quote       func(ident string) string
	// objectKindQuery returns one row with the raw kind of the named object.
	objectKindQuery string
	kindOf          func(raw string) string
	columnsQuery    string
	columnTypes     [2]string
	// totalCheck is appended to the total_revenue column definition.
	totalCheck string
}

func dialectFor(driver string) (*dialect, error) {
	switch strings.ToLower(driver) {
	case database.DriverSQLite:
		return &dialect{
			name:            database.DriverSQLite,
			placeholder:     func(int) string { return "?" },
			quote:           func(s string) string { return `"` + s + `"` },
			objectKindQuery: `SELECT type FROM sqlite_master WHERE lower(name) = lower(?)`,
			kindOf:          strings.ToLower,
			columnsQuery:    `SELECT name FROM pragma_table_info(?)`,
			// NUMERIC affinity would store totals as REAL and keep only 15
			// significant digits, so totals are kept as fixed-point text.
			columnTypes: [2]string{"TEXT", "TEXT"},
			totalCheck:  ` CHECK (total_revenue GLOB '[0-9]*.[0-9][0-9]')`,
		}, nil
	case database.DriverPostgres:
		return &dialect{
			name:        database.DriverPostgres,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
			quote:       func(s string) string { return `"` + s + `"` },
			objectKindQuery: `SELECT table_type FROM information_schema.tables
				WHERE table_schema = current_schema() AND table_name = $1`,
			kindOf: func(raw string) string {
				switch raw {
				case "BASE TABLE":
					return objectTable
				case "VIEW":
					return objectView
				}
				return strings.ToLower(raw)
			},
			columnsQuery: `SELECT column_name FROM information_schema.columns
				WHERE table_schema = current_schema() AND table_name = $1`,
			columnTypes: [2]string{"TEXT", "NUMERIC(18,2)"},
		}, nil
	case database.DriverSQLServer:
		return &dialect{
			name:            database.DriverSQLServer,
			placeholder:     func(n int) string { return fmt.Sprintf("@p%d", n) },
			quote:           func(s string) string { return "[" + s + "]" },
			objectKindQuery: `SELECT type FROM sys.objects WHERE name = @p1 AND schema_id = SCHEMA_ID()`,
			kindOf: func(raw string) string {
				switch strings.TrimSpace(raw) {
				case "U":
					return objectTable
				case "V":
					return objectView
				}
				return strings.ToLower(strings.TrimSpace(raw))
			},
			columnsQuery: `SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS
				WHERE TABLE_NAME = @p1 AND TABLE_SCHEMA = SCHEMA_NAME()`,
			// The default collation is case-insensitive; country keys are not.
			columnTypes: [2]string{"NVARCHAR(450) COLLATE Latin1_General_100_BIN2", "DECIMAL(18,2)"},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}
}

func (d *dialect) createTable(table string) string {
	return fmt.Sprintf("CREATE TABLE %s (country %s NOT NULL PRIMARY KEY, total_revenue %s NOT NULL%s)",
		d.quote(table), d.columnTypes[0], d.columnTypes[1], d.totalCheck)
}

func (d *dialect) deleteAll(table string) string {
	return fmt.Sprintf("DELETE FROM %s", d.quote(table))
}

func (d *dialect) insert(table string) string {
	return fmt.Sprintf("INSERT INTO %s (country, total_revenue) VALUES (%s, %s)",
		d.quote(table), d.placeholder(1), d.placeholder(2))
}

func (d *dialect) selectAll(table string) string {
	return fmt.Sprintf("SELECT country, total_revenue FROM %s ORDER BY country", d.quote(table))
}
