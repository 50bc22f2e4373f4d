// Package export writes structured tables to files, databases and object
// storage.
package export

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gareport/internal/config"
	"gareport/internal/domain"
	"gareport/internal/schema"
)

// Format is a serialisation format for file and object destinations.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. An empty name means FormatCSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", domain.ErrValidation("unknown export format %q (want csv or json)", s)
	}
}

// Options configures Open.
type Options struct {
	Format   Format           // format for "-" and object destinations without an extension
	Append   bool             // append to an existing SQL table instead of replacing it
	Registry *schema.Registry // column types for SQL tables (default schema.Default())
	Storage  config.StorageConfig
	Stdout   io.Writer // destination for "-" (default os.Stdout)
}

// Open returns a writer for dest:
//
//	-                          stdout (Options.Format)
//	report.csv, report.json    local file, format from the extension
//	sqlite:///path/db#table    sqlite table
//	duckdb:///path/db#table    DuckDB table
//	gs://bucket/key            Google Cloud Storage object
//	s3://bucket/key            S3 object
//	az://container/key         Azure blob
func Open(ctx context.Context, dest string, opts Options) (domain.TableWriter, error) {
	if opts.Registry == nil {
		opts.Registry = schema.Default()
	}
	if opts.Format == "" {
		opts.Format = FormatCSV
	}

	if dest == "" || dest == "-" {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return newStreamWriter(out, opts.Format), nil
	}

	scheme, _, hasScheme := strings.Cut(dest, "://")
	if !hasScheme {
		format, err := formatFromPath(dest, "")
		if err != nil {
			return nil, err
		}
		return &FileWriter{Path: dest, Format: format}, nil
	}

	switch scheme {
	case "sqlite", "sqlite3", "duckdb":
		dsn, table, err := parseSQLDestination(dest)
		if err != nil {
			return nil, err
		}
		driver := DriverSQLite
		if scheme == "duckdb" {
			driver = DriverDuckDB
		}
		return &SQLFileWriter{Driver: driver, DSN: dsn, Table: table, Append: opts.Append, Registry: opts.Registry}, nil

	case "gs", "s3", "az":
		bucket, key, err := ParseObjectPath(dest)
		if err != nil {
			return nil, err
		}
		format, err := formatFromPath(key, opts.Format)
		if err != nil {
			return nil, err
		}
		uploader, err := newUploader(ctx, scheme, opts.Storage)
		if err != nil {
			return nil, err
		}
		return &ObjectWriter{Uploader: uploader, Bucket: bucket, Key: key, Format: format}, nil

	default:
		return nil, domain.ErrValidation("unsupported destination scheme %q", scheme)
	}
}

// ParseObjectPath extracts bucket and key from a "scheme://bucket/path/to/object" URI.
func ParseObjectPath(p string) (bucket, key string, err error) {
	u, err := url.Parse(p)
	if err != nil {
		return "", "", fmt.Errorf("parse object path %q: %w", p, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" {
		return "", "", domain.ErrValidation("empty bucket in object path %q", p)
	}
	if key == "" {
		return "", "", domain.ErrValidation("empty key in object path %q", p)
	}
	return bucket, key, nil
}

// parseSQLDestination splits "driver://path#table" into a DSN and table.
// Both "sqlite:///abs/path.db" and "sqlite://rel/path.db" are accepted.
func parseSQLDestination(dest string) (dsn, table string, err error) {
	_, rest, _ := strings.Cut(dest, "://")
	dsn, table, ok := strings.Cut(rest, "#")
	if !ok || table == "" {
		return "", "", domain.ErrValidation("destination %q needs a #table suffix", dest)
	}
	if err := ValidateTableName(table); err != nil {
		return "", "", err
	}
	return dsn, table, nil
}

func formatFromPath(p string, fallback Format) (Format, error) {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", domain.ErrValidation("cannot infer format of %q (use .csv or .json)", p)
}

// FormatCell renders a cell for text output. Dates use YYYY-MM-DD and
// floats use the shortest exact representation.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(x)
	}
}
