package reports

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"gareport/internal/domain"
)

// MonthlyEcommerceOverview reports entrances, sessions, pageviews,
// transactions, conversion rate, revenue and AOV per month, newest first.
// Params.Segment and Params.Filters are applied when set.
func MonthlyEcommerceOverview(ctx context.Context, r Runner, p Params) (*domain.StructuredTable, error) {
	payload := monthlyPayload(p,
		"ga:entrances", "ga:sessions", "ga:pageviews", "ga:transactions",
		"ga:transactionsPerSession", "ga:transactionRevenue", "ga:revenuePerTransaction",
	)
	payload.Segment = p.Segment
	payload.Filters = p.Filters

	table, err := r.Table(ctx, p.ViewID, payload)
	if err != nil {
		return nil, fmt.Errorf("ecommerce overview: %w", err)
	}
	return relabel(table, map[string]string{
		"entrances":              "Entrances",
		"sessions":               "Sessions",
		"pageviews":              "Pageviews",
		"transactions":           "Transactions",
		"transactionsPerSession": "Conversion rate",
		"revenuePerTransaction":  "AOV",
		"transactionRevenue":     "Revenue",
	})
}

// Coupon report filters.
const (
	couponFilter    = "ga:orderCouponCode!=(not set)"
	nonCouponFilter = "ga:orderCouponCode==(not set)"
)

// MonthlyCouponsOverview compares coupon and non-coupon orders per month.
// The three underlying queries (all, coupon and non-coupon orders) run
// concurrently and are left-joined on Period, driven by the coupon months.
//
// Derived columns: "Transactions via coupons" and "Revenue via coupons" are
// percentages of all orders (rounded to 2 and 0 decimals), and "Coupon AOV
// uplift" is coupon AOV minus overall AOV (2 decimals). A derived value is
// nil when an input is missing or the denominator is zero.
func MonthlyCouponsOverview(ctx context.Context, r Runner, p Params) (*domain.StructuredTable, error) {
	metrics := []string{"ga:transactions", "ga:transactionRevenue", "ga:revenuePerTransaction"}
	filters := []string{"", couponFilter, nonCouponFilter}
	tables := make([]*domain.StructuredTable, len(filters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(filters))
	for i, f := range filters {
		g.Go(func() error {
			payload := monthlyPayload(p, metrics...)
			payload.Filters = f
			t, err := r.Table(gctx, p.ViewID, payload)
			if err != nil {
				return err
			}
			tables[i], err = relabel(t, nil)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("coupons overview: %w", err)
	}
	all, coupon, nonCoupon := byPeriod(tables[0]), byPeriod(tables[1]), byPeriod(tables[2])

	out := domain.NewStructuredTable([]string{
		"Period", "Coupon transactions", "Transactions via coupons", "Coupon revenue",
		"Revenue via coupons", "Coupon AOV", "Non-coupon AOV", "Coupon AOV uplift",
	})
	for _, period := range coupon.order {
		c := coupon.rows[period]
		a := all.rows[period]
		n := nonCoupon.rows[period]

		out.Rows = append(out.Rows, []any{
			period,
			c["transactions"],
			round(ratio(c["transactions"], a["transactions"]), 2),
			c["transactionRevenue"],
			round(ratio(c["transactionRevenue"], a["transactionRevenue"]), 0),
			c["revenuePerTransaction"],
			n["revenuePerTransaction"],
			round(diff(c["revenuePerTransaction"], a["revenuePerTransaction"]), 2),
		})
	}
	return out, nil
}

// MonthlyGoogleAdsOverview reports Google Ads (google / cpc) performance per
// month, including cost of sale (COS = cost / revenue * 100).
func MonthlyGoogleAdsOverview(ctx context.Context, r Runner, p Params) (*domain.StructuredTable, error) {
	payload := monthlyPayload(p,
		"ga:entrances", "ga:sessions", "ga:transactions", "ga:transactionsPerSession",
		"ga:transactionRevenue", "ga:revenuePerTransaction", "ga:adCost", "ga:CPC",
	)
	payload.Filters = "ga:medium==cpc;ga:source==google"

	table, err := r.Table(ctx, p.ViewID, payload)
	if err != nil {
		return nil, fmt.Errorf("google ads overview: %w", err)
	}
	out, err := relabel(table, map[string]string{
		"entrances":              "Entrances",
		"sessions":               "Sessions",
		"transactions":           "Transactions",
		"transactionsPerSession": "Conversion rate",
		"revenuePerTransaction":  "AOV",
		"transactionRevenue":     "Revenue",
		"adCost":                 "Costs",
	})
	if err != nil {
		return nil, err
	}

	costs, revenue := out.ColumnIndex("Costs"), out.ColumnIndex("Revenue")
	out.Columns = append(out.Columns, "COS")
	for i, row := range out.Rows {
		out.Rows[i] = append(row, ratio(row[costs], row[revenue]))
	}
	return out, nil
}

// periodIndex maps each Period to its row keyed by original column name.
type periodIndex struct {
	order []string
	rows  map[string]map[string]any
}

func byPeriod(t *domain.StructuredTable) periodIndex {
	idx := periodIndex{rows: make(map[string]map[string]any, t.Len())}
	p := t.ColumnIndex("Period")
	for _, row := range t.Rows {
		period, _ := row[p].(string)
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			rec[c] = row[i]
		}
		if _, seen := idx.rows[period]; !seen {
			idx.order = append(idx.order, period)
		}
		idx.rows[period] = rec
	}
	return idx
}

func diff(a, b any) any {
	x, ok1 := number(a)
	y, ok2 := number(b)
	if !ok1 || !ok2 {
		return nil
	}
	return x - y
}

func round(v any, places int) any {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(f*scale) / scale
}
