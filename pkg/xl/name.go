package xl

import (
	"context"
	"strconv"
	"strings"
)

// UniqueDomName derives an unused domain name from prefix by
// enumerating the currently running domains, taking the highest numeric
// suffix among names starting with prefix, and appending max+1.
//
// The running-domain set is recomputed on every call: other actors
// create and destroy domains concurrently, so caching it would race.
// Names whose suffix is not an unsigned integer are ignored.
func (c *Client) UniqueDomName(ctx context.Context, prefix string) (string, error) {
	domains, err := c.List(ctx)
	if err != nil {
		return "", err
	}

	var max uint64
	for _, d := range domains {
		if !strings.HasPrefix(d.Name, prefix) {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimPrefix(d.Name, prefix), 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return prefix + strconv.FormatUint(max+1, 10), nil
}
