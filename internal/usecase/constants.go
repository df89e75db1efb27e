package usecase

const (
	// DefaultPageSize is used when a list request does not ask for a limit.
	DefaultPageSize = 20

	// MaxPageSize caps any list request.
	MaxPageSize = 100
)

// Pagination bounds the page size of list operations.
type Pagination struct {
	Default int
	Max     int
}

// DefaultPagination is what use cases start with.
var DefaultPagination = Pagination{Default: DefaultPageSize, Max: MaxPageSize}

func (p Pagination) limit(requested int) int {
	if requested <= 0 {
		requested = p.Default
	}
	if p.Max > 0 && requested > p.Max {
		requested = p.Max
	}
	return requested
}
