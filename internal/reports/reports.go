// Package reports builds common monthly reports on top of the query service.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gareport/internal/domain"
)

// Runner runs a query and returns the typed table. *query.QueryService
// satisfies it.
type Runner interface {
	Table(ctx context.Context, viewID string, payload domain.QueryPayload) (*domain.StructuredTable, error)
}

// Params are the inputs shared by every report.
type Params struct {
	ViewID    string
	StartDate string
	EndDate   string
	Segment   string // ignored by reports with a fixed segment
	Filters   string // ignored by reports with fixed filters
}

// Template is a named report.
type Template struct {
	Name        string
	Description string
	Run         func(ctx context.Context, r Runner, p Params) (*domain.StructuredTable, error)
}

var templates = map[string]Template{
	"ecommerce": {
		Name:        "ecommerce",
		Description: "Monthly traffic, transactions, conversion rate, revenue and AOV",
		Run:         MonthlyEcommerceOverview,
	},
	"coupons": {
		Name:        "coupons",
		Description: "Monthly coupon share of transactions and revenue, and coupon AOV uplift",
		Run:         MonthlyCouponsOverview,
	},
	"google-ads": {
		Name:        "google-ads",
		Description: "Monthly Google Ads (cpc) traffic, revenue, cost, CPC and cost of sale",
		Run:         MonthlyGoogleAdsOverview,
	},
}

// Templates returns every report template sorted by name.
func Templates() []Template {
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the template with the given name.
func Lookup(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, domain.ErrValidation("unknown report %q", name)
	}
	return t, nil
}

// monthlyPayload is the base payload of every monthly report.
func monthlyPayload(p Params, metrics ...string) domain.QueryPayload {
	return domain.QueryPayload{
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Metrics:    metrics,
		Dimensions: []string{"ga:yearMonth"},
		Sort:       []string{"-ga:yearMonth"},
	}
}

// PeriodLabel turns a yearMonth value such as "202101" into "January, 2021".
func PeriodLabel(yearMonth string) (string, error) {
	t, err := time.Parse("200601", yearMonth)
	if err != nil {
		return "", fmt.Errorf("parse yearMonth %q: %w", yearMonth, err)
	}
	return t.Format("January, 2006"), nil
}

// relabel replaces the yearMonth column with a Period label column and
// renames the remaining columns. Columns missing from names keep their name.
func relabel(table *domain.StructuredTable, names map[string]string) (*domain.StructuredTable, error) {
	out := table.Clone()
	ym := out.ColumnIndex("yearMonth")
	if ym < 0 {
		return nil, &domain.MalformedResponseError{Missing: []string{"yearMonth"}}
	}
	for _, row := range out.Rows {
		s, _ := row[ym].(string)
		label, err := PeriodLabel(s)
		if err != nil {
			return nil, err
		}
		row[ym] = label
	}
	out.Columns[ym] = "Period"
	for i, c := range out.Columns {
		if n, ok := names[c]; ok {
			out.Columns[i] = n
		}
	}
	return out, nil
}

// number converts a typed numeric cell to float64.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// ratio returns num/den*100, or nil when either side is missing or den is 0.
func ratio(num, den any) any {
	n, ok1 := number(num)
	d, ok2 := number(den)
	if !ok1 || !ok2 || d == 0 {
		return nil
	}
	return n / d * 100
}
