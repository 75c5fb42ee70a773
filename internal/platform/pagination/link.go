package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BuildLinkHeader constructs an RFC 8288 Link header with first, prev and
// next relations, preserving the caller's filter query parameters.
func BuildLinkHeader(baseURL string, query url.Values, p Params, total int) string {
	p = p.Normalize()

	var links []string
	link := func(page int, rel string) {
		q := cloneValues(query)
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(p.Limit))
		links = append(links, fmt.Sprintf("<%s?%s>; rel=\"%s\"", baseURL, q.Encode(), rel))
	}

	if p.Page > 0 {
		link(0, "first")
		link(min(p.Page-1, lastPage(total, p.Limit)), "prev")
	}
	if (p.Page+1)*p.Limit < total {
		link(p.Page+1, "next")
	}
	return strings.Join(links, ", ")
}

func lastPage(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total - 1) / limit
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return make(url.Values)
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
