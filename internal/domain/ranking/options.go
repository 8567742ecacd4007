package ranking

// JoinOrder fixes the order of merged keys before the rank-sum sort, which
// decides how equal rank sums are broken.
type JoinOrder string

const (
	// JoinByKey orders the union of keys lexicographically.
	JoinByKey JoinOrder = "key"
	// JoinBySource lists the primary table in rank order, then keys only in
	// the secondary table in its rank order.
	JoinBySource JoinOrder = "source"
)

// Pagination defaults.
const (
	DefaultPageSize = 1000
	DefaultMaxPages = 4
)

type options struct {
	joinOrder JoinOrder
	pageSize  int
	maxPages  int
}

// Option applies a configuration option to Merge and MergeRankings.
type Option func(*options)

// WithJoinOrder selects the join order; unknown values are ignored.
func WithJoinOrder(order JoinOrder) Option {
	return func(o *options) {
		switch order {
		case JoinByKey, JoinBySource:
			o.joinOrder = order
		}
	}
}

// WithPageSize sets the number of entries per page.
func WithPageSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithMaxPages caps the number of pages; 0 removes the cap.
func WithMaxPages(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxPages = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		joinOrder: JoinByKey,
		pageSize:  DefaultPageSize,
		maxPages:  DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
