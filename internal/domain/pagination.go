package domain

// DefaultMaxResults is the page size the API applies when max-results is unset.
const DefaultMaxResults = 1000

// MaxMaxResults is the largest page size the API accepts.
const MaxMaxResults = 10000

// TotalPages returns ceil(total / perPage). A non-positive perPage yields 0.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total-1)/perPage + 1
}
