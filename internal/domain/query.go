package domain

import (
	"regexp"
	"strings"
	"time"
)

// Namespace is the API prefix carried by field names and view identifiers.
const Namespace = "ga"

// API limits on a single query.
const (
	MaxMetrics    = 10
	MaxDimensions = 7
)

// Sampling levels accepted by the API.
const (
	SamplingDefault         = "DEFAULT"
	SamplingFaster          = "FASTER"
	SamplingHigherPrecision = "HIGHER_PRECISION"
)

var (
	relativeDateRe = regexp.MustCompile(`^(today|yesterday|[0-9]+daysAgo)$`)
	viewIDRe       = regexp.MustCompile(`^[0-9]+$`)
)

// QueryPayload is the set of parameters for one report query.
//
// IDs and StartIndex are owned by the query service and the pagination
// engine respectively; values set by callers are overwritten.
type QueryPayload struct {
	IDs              string   `json:"ids,omitempty" yaml:"-"`
	StartDate        string   `json:"start_date" yaml:"start_date"`
	EndDate          string   `json:"end_date" yaml:"end_date"`
	Metrics          []string `json:"metrics" yaml:"metrics"`
	Dimensions       []string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Segment          string   `json:"segment,omitempty" yaml:"segment,omitempty"`
	Filters          string   `json:"filters,omitempty" yaml:"filters,omitempty"`
	Sort             []string `json:"sort,omitempty" yaml:"sort,omitempty"`
	MaxResults       int      `json:"max_results,omitempty" yaml:"max_results,omitempty"`
	SamplingLevel    string   `json:"sampling_level,omitempty" yaml:"sampling_level,omitempty"`
	IncludeEmptyRows *bool    `json:"include_empty_rows,omitempty" yaml:"include_empty_rows,omitempty"`
	StartIndex       int      `json:"start_index,omitempty" yaml:"-"`
}

// Validate checks the caller-supplied parameters.
func (q QueryPayload) Validate() error {
	if err := validateDate("start date", q.StartDate); err != nil {
		return err
	}
	if err := validateDate("end date", q.EndDate); err != nil {
		return err
	}
	if len(q.Metrics) == 0 {
		return ErrValidation("at least one metric is required")
	}
	if len(q.Metrics) > MaxMetrics {
		return ErrValidation("at most %d metrics are allowed, got %d", MaxMetrics, len(q.Metrics))
	}
	if len(q.Dimensions) > MaxDimensions {
		return ErrValidation("at most %d dimensions are allowed, got %d", MaxDimensions, len(q.Dimensions))
	}
	for _, m := range q.Metrics {
		if strings.TrimSpace(m) == "" {
			return ErrValidation("metric names must not be empty")
		}
	}
	if q.MaxResults < 0 || q.MaxResults > MaxMaxResults {
		return ErrValidation("max results must be between 0 and %d, got %d", MaxMaxResults, q.MaxResults)
	}
	switch q.SamplingLevel {
	case "", SamplingDefault, SamplingFaster, SamplingHigherPrecision:
	default:
		return ErrValidation("unknown sampling level %q", q.SamplingLevel)
	}
	return nil
}

// WithView returns a copy of q targeting the given view. The view
// identifier always replaces whatever the caller set.
func (q QueryPayload) WithView(viewID string) QueryPayload {
	q.IDs = ViewIdentifier(viewID)
	q.StartIndex = 0
	return q
}

// WithStartIndex returns a copy of q requesting the page at the given
// 1-based start index.
func (q QueryPayload) WithStartIndex(startIndex int) QueryPayload {
	q.StartIndex = startIndex
	return q
}

// ViewIdentifier returns the namespaced identifier for a view id.
func ViewIdentifier(viewID string) string {
	return Namespace + ":" + viewID
}

// ValidateViewID checks that a view id is a non-empty run of digits.
func ValidateViewID(viewID string) error {
	if !viewIDRe.MatchString(viewID) {
		return ErrValidation("view id must be numeric, got %q", viewID)
	}
	return nil
}

// QualifiedName adds the API namespace to a field name that lacks one.
// Sort keys keep their leading "-".
func QualifiedName(name string) string {
	name = strings.TrimSpace(name)
	desc := strings.HasPrefix(name, "-")
	name = strings.TrimPrefix(name, "-")
	if !strings.Contains(name, ":") {
		name = Namespace + ":" + name
	}
	if desc {
		return "-" + name
	}
	return name
}

// QualifiedNames applies QualifiedName to every element.
func QualifiedNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		out = append(out, QualifiedName(n))
	}
	return out
}

// SplitFieldList splits a comma separated field list, trimming whitespace.
func SplitFieldList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateDate(label, v string) error {
	if v == "" {
		return ErrValidation("%s is required", label)
	}
	if relativeDateRe.MatchString(v) {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		return ErrValidation("%s %q must be YYYY-MM-DD, today, yesterday or NdaysAgo", label, v)
	}
	return nil
}
