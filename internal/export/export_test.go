package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gareport/internal/config"
	"gareport/internal/domain"
	"gareport/internal/reports"
	"gareport/internal/schema"
	"gareport/internal/service/query"
	"gareport/internal/testutil"
)

func typedTable() *domain.StructuredTable {
	return &domain.StructuredTable{
		Columns: []string{"date", "source", "sessions", "bounceRate"},
		Rows: [][]any{
			{time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC), "google", int64(42), 3.14},
			{time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), "bing, inc", int64(7), 0.5},
		},
	}
}

// === Text formats ===

func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(&buf).Write(context.Background(), typedTable()))
	assert.Equal(t,
		"date,source,sessions,bounceRate\n"+
			"2021-01-31,google,42,3.14\n"+
			"2021-02-01,\"bing, inc\",7,0.5\n",
		buf.String())
}

func TestCSVWriter_EmptyTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(&buf).Write(context.Background(), domain.NewStructuredTable([]string{"sessions"})))
	assert.Equal(t, "sessions\n", buf.String())
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf).Write(context.Background(), typedTable()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2021-01-31", got[0]["date"])
	assert.Equal(t, "google", got[0]["source"])
	assert.InDelta(t, 42, got[0]["sessions"], 0)
	assert.InDelta(t, 3.14, got[0]["bounceRate"], 0.0001)
}

func TestJSONWriter_EmptyTableIsEmptyArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf).Write(context.Background(), domain.NewStructuredTable([]string{"a"})))
	assert.JSONEq(t, "[]", buf.String())
}

func TestFormatCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{int64(-3), "-3"},
		{12, "12"},
		{0.1, "0.1"},
		{100.0, "100"},
		{time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC), "2020-12-01"},
		{true, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCell(tt.in))
	}
}

func TestFileWriter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.json"} {
		w, err := Open(context.Background(), filepath.Join(dir, name), Options{})
		require.NoError(t, err)
		require.NoError(t, w.Write(context.Background(), typedTable()))

		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "google")
	}
}

// === Open ===

func TestOpen_Destinations(t *testing.T) {
	t.Parallel()

	s3Key, s3Secret, s3Region := "key", "secret", "eu-central-1"
	storage := config.StorageConfig{
		S3KeyID:          &s3Key,
		S3Secret:         &s3Secret,
		S3Region:         &s3Region,
		AzureAccountName: "acct",
		AzureAccountKey:  "c2VjcmV0",
	}

	tests := []struct {
		name    string
		dest    string
		check   func(t *testing.T, w domain.TableWriter)
		wantErr bool
	}{
		{name: "stdout", dest: "-", check: func(t *testing.T, w domain.TableWriter) {
			t.Helper()
			assert.IsType(t, &CSVWriter{}, w)
		}},
		{name: "csv file", dest: "report.csv", check: func(t *testing.T, w domain.TableWriter) {
			t.Helper()
			assert.Equal(t, &FileWriter{Path: "report.csv", Format: FormatCSV}, w)
		}},
		{name: "json file", dest: "out/report.JSON", check: func(t *testing.T, w domain.TableWriter) {
			t.Helper()
			assert.Equal(t, FormatJSON, w.(*FileWriter).Format)
		}},
		{name: "sqlite absolute", dest: "sqlite:///tmp/ga.db#sessions", check: func(t *testing.T, w domain.TableWriter) {
			t.Helper()
			sw := w.(*SQLFileWriter)
			assert.Equal(t, DriverSQLite, sw.Driver)
			assert.Equal(t, "/tmp/ga.db", sw.DSN)
			assert.Equal(t, "sessions", sw.Table)
		}},
		{name: "duckdb relative", dest: "duckdb://ga.duckdb#monthly", check: func(t *testing.T, w domain.TableWriter) {
			t.Helper()
			sw := w.(*SQLFileWriter)
			assert.Equal(t, DriverDuckDB, sw.Driver)
			assert.Equal(t, "ga.duckdb", sw.DSN)
		}},
		{name: "s3 object", dest: "s3://reports/2021/jan.json", check: func(t *testing.T, w domain.TableWriter) {
			t.Helper()
			ow := w.(*ObjectWriter)
			assert.Equal(t, "reports", ow.Bucket)
			assert.Equal(t, "2021/jan.json", ow.Key)
			assert.Equal(t, FormatJSON, ow.Format)
			assert.IsType(t, &S3Uploader{}, ow.Uploader)
		}},
		{name: "azure blob without extension", dest: "az://exports/latest", check: func(t *testing.T, w domain.TableWriter) {
			t.Helper()
			ow := w.(*ObjectWriter)
			assert.Equal(t, FormatCSV, ow.Format)
			assert.IsType(t, &AzureUploader{}, ow.Uploader)
		}},
		{name: "file without extension", dest: "report", wantErr: true},
		{name: "sqlite without table", dest: "sqlite:///tmp/ga.db", wantErr: true},
		{name: "sqlite bad table", dest: "sqlite:///tmp/ga.db#drop;table", wantErr: true},
		{name: "object without key", dest: "s3://reports", wantErr: true},
		{name: "unknown scheme", dest: "ftp://host/file.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, err := Open(context.Background(), tt.dest, Options{Storage: storage})
			if tt.wantErr {
				require.Error(t, err)
				var valErr *domain.ValidationError
				assert.ErrorAs(t, err, &valErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, w)
		})
	}
}

func TestOpen_ObjectStoreWithoutCredentials(t *testing.T) {
	t.Parallel()

	for _, dest := range []string{"s3://b/k.csv", "az://c/k.csv"} {
		_, err := Open(context.Background(), dest, Options{})
		var valErr *domain.ValidationError
		assert.ErrorAs(t, err, &valErr, dest)
	}
}

func TestOpen_StdoutFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w, err := Open(context.Background(), "-", Options{Format: FormatJSON, Stdout: &buf})
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), typedTable()))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

// === Object storage ===

type recordingUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (u *recordingUploader) Upload(_ context.Context, bucket, key, contentType string, body io.Reader) error {
	if u.err != nil {
		return u.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = map[string][]byte{}
		u.types = map[string]string{}
	}
	u.objects[bucket+"/"+key] = data
	u.types[bucket+"/"+key] = contentType
	return nil
}

func TestObjectWriter(t *testing.T) {
	t.Parallel()

	up := &recordingUploader{}
	w := &ObjectWriter{Uploader: up, Bucket: "reports", Key: "jan.csv", Format: FormatCSV}
	require.NoError(t, w.Write(context.Background(), typedTable()))

	assert.Equal(t, "text/csv", up.types["reports/jan.csv"])
	assert.Contains(t, string(up.objects["reports/jan.csv"]), "2021-01-31,google,42,3.14")
}

func TestObjectWriter_UploadFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("access denied")
	w := &ObjectWriter{Uploader: &recordingUploader{err: boom}, Bucket: "b", Key: "k.json", Format: FormatJSON}
	err := w.Write(context.Background(), typedTable())
	assert.ErrorIs(t, err, boom)
}

// === SQL ===

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverSQLite, filepath.Join(t.TempDir(), "export.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLWriter_SQLite(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	w, err := NewSQLWriter(db, DriverSQLite, "traffic", false, nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), typedTable()))

	var (
		date     time.Time
		sessions int64
		rate     float64
	)
	row := db.QueryRow(`SELECT "date", "sessions", "bounceRate" FROM traffic WHERE source = 'google'`)
	require.NoError(t, row.Scan(&date, &sessions, &rate))
	assert.True(t, date.Equal(time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC)), "got %v", date)
	assert.Equal(t, int64(42), sessions)
	assert.InDelta(t, 3.14, rate, 0.0001)
}

func TestSQLWriter_ReplaceAndAppend(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	count := func() int {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM traffic").Scan(&n))
		return n
	}

	replace, err := NewSQLWriter(db, DriverSQLite, "traffic", false, nil)
	require.NoError(t, err)
	require.NoError(t, replace.Write(context.Background(), typedTable()))
	require.NoError(t, replace.Write(context.Background(), typedTable()))
	assert.Equal(t, 2, count(), "replace mode drops earlier rows")

	appender, err := NewSQLWriter(db, DriverSQLite, "traffic", true, nil)
	require.NoError(t, err)
	require.NoError(t, appender.Write(context.Background(), typedTable()))
	assert.Equal(t, 4, count())
}

func TestSQLWriter_UntypedTable(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	w, err := NewSQLWriter(db, DriverSQLite, "raw", false, schema.New(nil))
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), &domain.StructuredTable{
		Columns: []string{"sessions", "customThing"},
		Rows:    [][]any{{"12", "foo"}},
	}))

	var sessions int64
	var custom string
	require.NoError(t, db.QueryRow(`SELECT sessions, "customThing" FROM raw`).Scan(&sessions, &custom))
	assert.Equal(t, int64(12), sessions)
	assert.Equal(t, "foo", custom)
}

func TestSQLWriter_ReportLabelsKeepNumericTypes(t *testing.T) {
	t.Parallel()

	exec := &testutil.MockExecutor{
		ExecuteFn: func(_ context.Context, payload domain.QueryPayload) (*domain.RawPage, error) {
			headers := []domain.ColumnHeader{{Name: "ga:yearMonth", ColumnType: domain.ColumnTypeDimension}}
			for _, m := range payload.Metrics {
				headers = append(headers, domain.ColumnHeader{Name: m, ColumnType: domain.ColumnTypeMetric})
			}
			return &domain.RawPage{
				TotalResults:  2,
				ItemsPerPage:  1000,
				ColumnHeaders: headers,
				Rows: [][]string{
					{"202102", "900", "10", "4000", "20", "2.0", "2000.50", "100.025"},
					{"202101", "800", "9", "3000", "17", "2.0", "1700.00", "100.0"},
				},
			}, nil
		},
	}
	svc := query.NewQueryService(exec, slog.New(slog.DiscardHandler))
	table, err := reports.MonthlyEcommerceOverview(context.Background(), svc,
		reports.Params{ViewID: "12345", StartDate: "2021-01-01", EndDate: "2021-02-28"})
	require.NoError(t, err)
	require.Contains(t, table.Columns, "Sessions")

	db := openSQLite(t)
	w, err := NewSQLWriter(db, DriverSQLite, "ecommerce", false, nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), table))

	var period, sessions, revenue string
	require.NoError(t, db.QueryRow(
		`SELECT typeof("Period"), typeof("Sessions"), typeof("Revenue") FROM ecommerce LIMIT 1`,
	).Scan(&period, &sessions, &revenue))
	assert.Equal(t, "text", period)
	assert.Equal(t, "integer", sessions)
	assert.Equal(t, "real", revenue)

	var maxSessions int64
	require.NoError(t, db.QueryRow(`SELECT MAX("Sessions") FROM ecommerce`).Scan(&maxSessions))
	assert.Equal(t, int64(10), maxSessions)
}

func TestSQLWriter_ColumnTypeFromCells(t *testing.T) {
	t.Parallel()

	w, err := NewSQLWriter(nil, DriverSQLite, "labels", false, nil)
	require.NoError(t, err)
	table := &domain.StructuredTable{
		Columns: []string{"Costs", "COS", "Day", "Label", "Empty", "sessions"},
		Rows: [][]any{
			{nil, nil, nil, "a"},
			{int64(3), 0.25, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), "b", nil, "12"},
		},
	}
	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "labels" ("Costs" BIGINT, "COS" DOUBLE, "Day" DATE, "Label" VARCHAR, "Empty" VARCHAR, "sessions" BIGINT)`,
		w.createStatement(table))
}

func TestSQLWriter_Validation(t *testing.T) {
	t.Parallel()

	db := openSQLite(t)
	for _, name := range []string{"", "1abc", "a-b", `x"; DROP TABLE y; --`} {
		_, err := NewSQLWriter(db, DriverSQLite, name, false, nil)
		assert.Error(t, err, name)
	}

	w, err := NewSQLWriter(db, DriverSQLite, "empty", false, nil)
	require.NoError(t, err)
	assert.Error(t, w.Write(context.Background(), &domain.StructuredTable{}))
}

func TestSQLFileWriter_DuckDB(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ga.duckdb")
	w, err := Open(context.Background(), "duckdb://"+path+"#traffic", Options{})
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), typedTable()))

	db, err := sql.Open(DriverDuckDB, path)
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	var total int64
	var first time.Time
	require.NoError(t, db.QueryRow(`SELECT CAST(SUM(sessions) AS BIGINT), MIN("date") FROM traffic`).Scan(&total, &first))
	assert.Equal(t, int64(49), total)
	assert.Equal(t, 2021, first.Year())
}

func TestSQLType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BIGINT", SQLType(schema.Integer))
	assert.Equal(t, "DOUBLE", SQLType(schema.Float))
	assert.Equal(t, "DATE", SQLType(schema.Date))
	assert.Equal(t, "VARCHAR", SQLType(schema.Duration))
	assert.Equal(t, "VARCHAR", SQLType(schema.String))
}
