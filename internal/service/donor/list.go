package donor

import (
	"strings"
	"time"

	"github.com/Kamrul101/donate-red-server/internal/platform/pagination"
	"github.com/Kamrul101/donate-red-server/internal/service/eligibility"
)

func (p ListParams) normalize() ListParams {
	p.Group = NormalizeGroup(p.Group)
	p.Thana = strings.TrimSpace(p.Thana)
	p.ExcludeEmail = normalizeEmail(p.ExcludeEmail)
	return p
}

func (p ListParams) matches(d Donor) bool {
	if p.Group != "" && d.Group != p.Group {
		return false
	}
	if p.Thana != "" && d.Thana != p.Thana {
		return false
	}
	return p.ExcludeEmail == "" || d.Email != p.ExcludeEmail
}

// selectPage filters candidates, annotates dateDiff against now, sorts the
// most eligible first and cuts the requested page. p must be normalized.
func selectPage(candidates []Donor, p ListParams, now time.Time) *Page {
	matched := make([]Donor, 0, len(candidates))
	for _, d := range candidates {
		if !p.matches(d) {
			continue
		}
		annotate(&d, now)
		matched = append(matched, d)
	}

	eligibility.Sort(matched,
		func(d Donor) *float64 { return d.DateDiff },
		func(d Donor) string { return d.ID },
	)

	start, end := pagination.Window(len(matched), pagination.Params{Page: p.Page, Limit: p.Limit})
	return &Page{
		Donors: matched[start:end],
		Total:  len(matched),
	}
}

func annotate(d *Donor, now time.Time) {
	d.DateDiff = eligibility.DateDiff(d.LastDate, now)
}
