package pagination

import "net/url"

// Result holds one page of items plus the metadata rendered into headers.
type Result[T any] struct {
	Items      []T
	Total      int
	LinkHeader string
}

// Paginate slices an already ordered collection to the requested page.
// A page past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, p Params, baseURL string, query url.Values) Result[T] {
	p = p.Normalize()
	total := len(items)
	start, end := Window(total, p)

	page := make([]T, end-start)
	copy(page, items[start:end])

	return Result[T]{
		Items:      page,
		Total:      total,
		LinkHeader: BuildLinkHeader(baseURL, query, p, total),
	}
}

// Window returns the [start, end) bounds of page p within total items.
func Window(total int, p Params) (start, end int) {
	p = p.Normalize()
	start = min(p.Offset(), total)
	end = min(start+p.Limit, total)
	return start, end
}
