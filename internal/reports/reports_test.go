package reports

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gareport/internal/domain"
	"gareport/internal/service/query"
	"gareport/internal/testutil"
)

func params() Params {
	return Params{ViewID: "12345", StartDate: "2021-01-01", EndDate: "2021-02-28"}
}

// pageFor builds a single-page response whose headers are the payload's
// dimensions followed by its metrics.
func pageFor(payload domain.QueryPayload, rows [][]string) *domain.RawPage {
	var headers []domain.ColumnHeader
	for _, d := range payload.Dimensions {
		headers = append(headers, domain.ColumnHeader{Name: d, ColumnType: domain.ColumnTypeDimension})
	}
	for _, m := range payload.Metrics {
		headers = append(headers, domain.ColumnHeader{Name: m, ColumnType: domain.ColumnTypeMetric})
	}
	return &domain.RawPage{
		TotalResults:  len(rows),
		ItemsPerPage:  1000,
		ColumnHeaders: headers,
		Rows:          rows,
	}
}

func newRunner(fn func(payload domain.QueryPayload) (*domain.RawPage, error)) (*query.QueryService, *testutil.MockExecutor) {
	exec := &testutil.MockExecutor{
		ExecuteFn: func(_ context.Context, payload domain.QueryPayload) (*domain.RawPage, error) {
			return fn(payload)
		},
	}
	return query.NewQueryService(exec, slog.New(slog.DiscardHandler)), exec
}

// === Helpers ===

func TestPeriodLabel(t *testing.T) {
	t.Parallel()

	got, err := PeriodLabel("202101")
	require.NoError(t, err)
	assert.Equal(t, "January, 2021", got)

	got, err = PeriodLabel("201912")
	require.NoError(t, err)
	assert.Equal(t, "December, 2019", got)

	_, err = PeriodLabel("2021-01")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, tmpl := range Templates() {
		got, err := Lookup(tmpl.Name)
		require.NoError(t, err)
		assert.Equal(t, tmpl.Name, got.Name)
		assert.NotNil(t, got.Run)
	}
	assert.Len(t, Templates(), 3)

	_, err := Lookup("weekly")
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

// === Ecommerce ===

func TestMonthlyEcommerceOverview(t *testing.T) {
	t.Parallel()

	runner, exec := newRunner(func(payload domain.QueryPayload) (*domain.RawPage, error) {
		return pageFor(payload, [][]string{
			{"202102", "900", "1000", "4000", "20", "2.0", "2000.50", "100.025"},
			{"202101", "800", "850", "3000", "17", "2.0", "1700.00", "100.0"},
		}), nil
	})

	p := params()
	p.Segment = "gaid::-5"
	p.Filters = "ga:country==United Kingdom"
	got, err := MonthlyEcommerceOverview(context.Background(), runner, p)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Period", "Entrances", "Sessions", "Pageviews", "Transactions", "Conversion rate", "Revenue", "AOV",
	}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []any{"February, 2021", int64(900), int64(1000), int64(4000), int64(20), 2.0, 2000.5, 100.025}, got.Rows[0])
	assert.Equal(t, "January, 2021", got.Rows[1][0])

	call := exec.Calls()[0]
	assert.Equal(t, "ga:12345", call.IDs)
	assert.Equal(t, []string{"ga:yearMonth"}, call.Dimensions)
	assert.Equal(t, []string{"-ga:yearMonth"}, call.Sort)
	assert.Equal(t, "gaid::-5", call.Segment)
	assert.Equal(t, "ga:country==United Kingdom", call.Filters)
	assert.Len(t, call.Metrics, 7)
}

func TestMonthlyEcommerceOverview_ExecutorError(t *testing.T) {
	t.Parallel()

	quota := errors.New("quota exceeded")
	runner, _ := newRunner(func(_ domain.QueryPayload) (*domain.RawPage, error) {
		return nil, quota
	})

	_, err := MonthlyEcommerceOverview(context.Background(), runner, params())
	assert.ErrorIs(t, err, quota)
	var execErr *domain.ExecutorError
	assert.ErrorAs(t, err, &execErr)
}

// === Coupons ===

func TestMonthlyCouponsOverview(t *testing.T) {
	t.Parallel()

	runner, exec := newRunner(func(payload domain.QueryPayload) (*domain.RawPage, error) {
		switch payload.Filters {
		case couponFilter:
			return pageFor(payload, [][]string{
				{"202102", "25", "3000", "120"},
				{"202101", "10", "1000", "100"},
			}), nil
		case nonCouponFilter:
			return pageFor(payload, [][]string{
				{"202102", "75", "7000", "93.33"},
			}), nil
		default:
			return pageFor(payload, [][]string{
				{"202102", "100", "10000", "100"},
				{"202101", "30", "0", "0"},
			}), nil
		}
	})

	got, err := MonthlyCouponsOverview(context.Background(), runner, params())
	require.NoError(t, err)
	assert.Equal(t, 3, exec.CallCount())

	assert.Equal(t, []string{
		"Period", "Coupon transactions", "Transactions via coupons", "Coupon revenue",
		"Revenue via coupons", "Coupon AOV", "Non-coupon AOV", "Coupon AOV uplift",
	}, got.Columns)
	require.Equal(t, 2, got.Len())

	assert.Equal(t, []any{"February, 2021", int64(25), 25.0, 3000.0, 30.0, 120.0, 93.33, 20.0}, got.Rows[0])

	jan := got.Rows[1]
	assert.Equal(t, "January, 2021", jan[0])
	assert.InDelta(t, 33.33, jan[2], 0.0001, "10 of 30 transactions")
	assert.Nil(t, jan[4], "revenue share is undefined when revenue is zero")
	assert.Nil(t, jan[6], "no non-coupon row for January")
	assert.InDelta(t, 100.0, jan[7], 0.0001)
}

func TestMonthlyCouponsOverview_OneQueryFails(t *testing.T) {
	t.Parallel()

	boom := errors.New("backend error")
	runner, _ := newRunner(func(payload domain.QueryPayload) (*domain.RawPage, error) {
		if payload.Filters == nonCouponFilter {
			return nil, boom
		}
		return pageFor(payload, [][]string{{"202101", "1", "1", "1"}}), nil
	})

	got, err := MonthlyCouponsOverview(context.Background(), runner, params())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
}

// === Google Ads ===

func TestMonthlyGoogleAdsOverview(t *testing.T) {
	t.Parallel()

	runner, exec := newRunner(func(payload domain.QueryPayload) (*domain.RawPage, error) {
		return pageFor(payload, [][]string{
			{"202101", "500", "600", "12", "2.0", "1200", "100", "300", "0.5"},
			{"202012", "400", "450", "0", "0.0", "0", "0", "150", "0.33"},
		}), nil
	})

	got, err := MonthlyGoogleAdsOverview(context.Background(), runner, params())
	require.NoError(t, err)

	assert.Equal(t, "ga:medium==cpc;ga:source==google", exec.Calls()[0].Filters)
	assert.Equal(t, []string{
		"Period", "Entrances", "Sessions", "Transactions", "Conversion rate", "Revenue", "AOV", "Costs", "CPC", "COS",
	}, got.Columns)
	assert.Equal(t, "January, 2021", got.Rows[0][0])
	assert.InDelta(t, 25.0, got.Rows[0][9], 0.0001)
	assert.Equal(t, "December, 2020", got.Rows[1][0])
	assert.Nil(t, got.Rows[1][9])
}

func TestRelabel_MissingYearMonth(t *testing.T) {
	t.Parallel()

	_, err := relabel(&domain.StructuredTable{Columns: []string{"sessions"}}, nil)
	var malformed *domain.MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}
