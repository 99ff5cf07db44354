package handling

import (
	"fmt"
	"net/http"
	"strconv"

	"amiasbakery_server/structs/tables"
)

// OrderListOptions are the admin order list query parameters
type OrderListOptions struct {
	Status tables.OrderStatus
	Limit  int
	Offset int
}

// ParseOrderListOptions parses ?status=&limit=&offset=. Missing values are
// zero and left for pagination defaults.
func ParseOrderListOptions(r *http.Request) (*OrderListOptions, error) {
	query := r.URL.Query()
	opts := &OrderListOptions{}

	if status := query.Get("status"); status != "" {
		opts.Status = tables.OrderStatus(status)
		if !opts.Status.Valid() {
			return nil, fmt.Errorf("unknown status %q", status)
		}
	}

	var err error
	if limit := query.Get("limit"); limit != "" {
		if opts.Limit, err = strconv.Atoi(limit); err != nil || opts.Limit < 0 {
			return nil, fmt.Errorf("limit must be a non-negative integer")
		}
	}

	if offset := query.Get("offset"); offset != "" {
		if opts.Offset, err = strconv.Atoi(offset); err != nil || opts.Offset < 0 {
			return nil, fmt.Errorf("offset must be a non-negative integer")
		}
	}

	return opts, nil
}
