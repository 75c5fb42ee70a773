package pagination

const (
	// DefaultLimit is the page size used when a request omits limit.
	DefaultLimit = 8
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Params embeds into Huma input structs for offset pagination.
type Params struct {
	Page  int `query:"page"  doc:"Zero-based page index"  default:"0" minimum:"0"`
	Limit int `query:"limit" doc:"Maximum items per page" default:"8" minimum:"1" maximum:"100"`
}

// Normalize clamps the params into their valid ranges. Huma validates
// inputs already; this covers callers that build Params directly.
func (p Params) Normalize() Params {
	if p.Page < 0 {
		p.Page = 0
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of items skipped before the page starts.
func (p Params) Offset() int {
	n := p.Normalize()
	return n.Page * n.Limit
}
