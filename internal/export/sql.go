package export

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register "duckdb" driver
	_ "github.com/mattn/go-sqlite3"    // register "sqlite3" driver

	"gareport/internal/domain"
	"gareport/internal/schema"
)

// database/sql driver names.
const (
	DriverSQLite = "sqlite3"
	DriverDuckDB = "duckdb"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName checks that name is a plain SQL identifier.
func ValidateTableName(name string) error {
	if !tableNameRe.MatchString(name) {
		return domain.ErrValidation("invalid table name %q", name)
	}
	return nil
}

// SQLWriter loads tables into a database table. Column types come from the
// schema registry, falling back to the Go type of the first non-nil cell for
// names the registry does not know. Each Write runs in a single transaction.
type SQLWriter struct {
	db       *sql.DB
	driver   string
	table    string
	appendTo bool
	registry *schema.Registry
}

// NewSQLWriter creates a SQLWriter. With appendTo false every Write replaces
// the table; otherwise rows are appended, creating the table if needed.
func NewSQLWriter(db *sql.DB, driver, table string, appendTo bool, registry *schema.Registry) (*SQLWriter, error) {
	if err := ValidateTableName(table); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = schema.Default()
	}
	return &SQLWriter{db: db, driver: driver, table: table, appendTo: appendTo, registry: registry}, nil
}

// Write implements domain.TableWriter.
func (w *SQLWriter) Write(ctx context.Context, table *domain.StructuredTable) error {
	if len(table.Columns) == 0 {
		return domain.ErrValidation("cannot export a table without columns")
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if !w.appendTo {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(w.table)); err != nil {
			return fmt.Errorf("drop table %s: %w", w.table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, w.createStatement(table)); err != nil {
		return fmt.Errorf("create table %s: %w", w.table, err)
	}

	stmt, err := tx.PrepareContext(ctx, w.insertStatement(table.Columns))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	args := make([]any, len(table.Columns))
	for r, row := range table.Rows {
		for i := range args {
			args[i] = nil
			if i < len(row) {
				args[i] = w.sqlValue(row[i])
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", r, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (w *SQLWriter) createStatement(table *domain.StructuredTable) string {
	defs := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		defs[i] = quoteIdent(c) + " " + w.columnType(table, i)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(w.table), strings.Join(defs, ", "))
}

// columnType resolves the SQL type of column i. Report labels such as
// "Sessions" or "Revenue" are not registry names and resolve to String, so
// their type is taken from the first non-nil cell instead.
func (w *SQLWriter) columnType(table *domain.StructuredTable, i int) string {
	if t := w.registry.TypeOf(table.Columns[i]); t != schema.String {
		return SQLType(t)
	}
	for _, row := range table.Rows {
		if i >= len(row) || row[i] == nil {
			continue
		}
		return cellSQLType(row[i])
	}
	return SQLType(schema.String)
}

// cellSQLType maps a coerced cell value to a column type.
func cellSQLType(v any) string {
	switch v.(type) {
	case int, int32, int64:
		return SQLType(schema.Integer)
	case float32, float64:
		return SQLType(schema.Float)
	case time.Time:
		return SQLType(schema.Date)
	default:
		return SQLType(schema.String)
	}
}

func (w *SQLWriter) insertStatement(columns []string) string {
	cols := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = quoteIdent(c)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(w.table), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// sqlValue adapts a cell for the driver. sqlite stores dates as text.
func (w *SQLWriter) sqlValue(v any) any {
	if d, ok := v.(time.Time); ok && w.driver == DriverSQLite {
		return d.Format(time.DateOnly)
	}
	return v
}

// SQLType maps a semantic type to a column type understood by sqlite and DuckDB.
func SQLType(t schema.SemanticType) string {
	switch t {
	case schema.Integer:
		return "BIGINT"
	case schema.Float:
		return "DOUBLE"
	case schema.Date:
		return "DATE"
	default:
		return "VARCHAR"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SQLFileWriter opens the database for each Write and closes it afterwards.
type SQLFileWriter struct {
	Driver   string
	DSN      string
	Table    string
	Append   bool
	Registry *schema.Registry
}

// Write implements domain.TableWriter.
func (fw *SQLFileWriter) Write(ctx context.Context, table *domain.StructuredTable) error {
	db, err := sql.Open(fw.Driver, fw.DSN)
	if err != nil {
		return fmt.Errorf("open %s database %q: %w", fw.Driver, fw.DSN, err)
	}
	defer db.Close() //nolint:errcheck

	w, err := NewSQLWriter(db, fw.Driver, fw.Table, fw.Append, fw.Registry)
	if err != nil {
		return err
	}
	return w.Write(ctx, table)
}
