package domain

// Column types reported in ColumnHeader.ColumnType.
const (
	ColumnTypeDimension = "DIMENSION"
	ColumnTypeMetric    = "METRIC"
)

// ColumnHeader describes one positional column of a RawPage.
type ColumnHeader struct {
	Name       string `json:"name"`
	ColumnType string `json:"columnType"`
	DataType   string `json:"dataType"`
}

// ProfileInfo carries the account/view metadata echoed by the API.
type ProfileInfo struct {
	ProfileID             string `json:"profileId,omitempty"`
	AccountID             string `json:"accountId,omitempty"`
	WebPropertyID         string `json:"webPropertyId,omitempty"`
	InternalWebPropertyID string `json:"internalWebPropertyId,omitempty"`
	ProfileName           string `json:"profileName,omitempty"`
	TableID               string `json:"tableId,omitempty"`
}

// QueryInfo is the query as interpreted by the API.
type QueryInfo struct {
	StartDate     string   `json:"start-date,omitempty"`
	EndDate       string   `json:"end-date,omitempty"`
	IDs           string   `json:"ids,omitempty"`
	Dimensions    string   `json:"dimensions,omitempty"`
	Metrics       []string `json:"metrics,omitempty"`
	Sort          []string `json:"sort,omitempty"`
	Filters       string   `json:"filters,omitempty"`
	Segment       string   `json:"segment,omitempty"`
	SamplingLevel string   `json:"samplingLevel,omitempty"`
	StartIndex    int      `json:"start-index,omitempty"`
	MaxResults    int      `json:"max-results,omitempty"`
}

// RawPage is the unmodified response of one remote query call.
//
// A nil ColumnHeaders or Rows slice means the field was absent from the
// response; an empty non-nil slice means it was present and empty.
type RawPage struct {
	Kind                string            `json:"kind,omitempty"`
	ID                  string            `json:"id,omitempty"`
	Query               QueryInfo         `json:"query"`
	ItemsPerPage        int               `json:"itemsPerPage"`
	TotalResults        int               `json:"totalResults"`
	SelfLink            string            `json:"selfLink,omitempty"`
	PreviousLink        string            `json:"previousLink,omitempty"`
	NextLink            string            `json:"nextLink,omitempty"`
	ProfileInfo         ProfileInfo       `json:"profileInfo"`
	ContainsSampledData bool              `json:"containsSampledData"`
	SampleSize          string            `json:"sampleSize,omitempty"`
	SampleSpace         string            `json:"sampleSpace,omitempty"`
	ColumnHeaders       []ColumnHeader    `json:"columnHeaders,omitempty"`
	TotalsForAllResults map[string]string `json:"totalsForAllResults,omitempty"`
	Rows                [][]string        `json:"rows,omitempty"`
}

// TotalPages returns ceil(TotalResults / ItemsPerPage), or 0 when the page
// size is unknown.
func (p *RawPage) TotalPages() int {
	return TotalPages(p.TotalResults, p.ItemsPerPage)
}

// MergedResult is a RawPage whose Rows hold every page's rows in retrieval
// order. All other fields come from the first page.
type MergedResult struct {
	RawPage

	// PagesFetched is the number of executor calls made for the query.
	PagesFetched int `json:"-"`
}
