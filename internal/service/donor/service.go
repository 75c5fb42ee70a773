// Package donor manages donor profiles and the donation record, the one
// operation that spans collections: it stamps the donor's lastDate and
// clears the donor's requests in a single transaction.
package donor

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service errors
var (
	ErrNotFound      = errors.New("donor not found")
	ErrAlreadyExists = errors.New("donor already exists")
	ErrEmailMismatch = errors.New("email does not match donor")
)

// Collection holds donor profile documents in both backends.
const Collection = "users"

// Donor is a stored profile plus the derived dateDiff.
type Donor struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Image     string
	Group     string
	District  string
	Thana     string
	Gender    string
	Age       int
	LastDate  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Extra holds profile fields submitted beyond the known ones.
	Extra map[string]any

	// DateDiff is days since LastDate, nil when unknown.
	DateDiff *float64
}

// CreateParams for registering a donor.
type CreateParams struct {
	Name     string
	Email    string
	Phone    string
	Image    string
	Group    string
	District string
	Thana    string
	Gender   string
	Age      int
	LastDate string
	Extra    map[string]any
}

// ListParams filters and pages the donor directory. Empty filters match
// everything.
type ListParams struct {
	Group        string
	Thana        string
	ExcludeEmail string
	Page         int
	Limit        int
}

// Page is one slice of the sorted directory.
type Page struct {
	Donors []Donor
	// Total counts every donor matching the filters.
	Total int
}

// Donation is the outcome of RecordDonation.
type Donation struct {
	LastDate     string
	DeletedCount int
}

// Service defines donor directory operations.
//
// Implementations must normalize emails (lowercase, trimmed) and compute
// DateDiff at read time.
type Service interface {
	List(ctx context.Context, params ListParams) (*Page, error)
	Get(ctx context.Context, id string) (*Donor, error)
	GetByEmail(ctx context.Context, email string) (*Donor, error)
	Count(ctx context.Context) (int64, error)
	Register(ctx context.Context, params CreateParams) (*Donor, error)
	RecordDonation(ctx context.Context, id, email string) (*Donation, error)
}

// NormalizeGroup repairs blood groups whose "+" arrived as a space in an
// unescaped query string, so "O " reads as "O+".
func NormalizeGroup(g string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(g))
	if trimmed == "" {
		return ""
	}
	if strings.HasSuffix(g, " ") && !strings.HasSuffix(trimmed, "+") && !strings.HasSuffix(trimmed, "-") {
		trimmed += "+"
	}
	return trimmed
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// record is the stored document shape shared by both backends.
type record struct {
	Name      string    `firestore:"name"               json:"name"`
	Email     string    `firestore:"email"              json:"email"`
	Phone     string    `firestore:"phone"              json:"phone"`
	Image     string    `firestore:"image"              json:"image"`
	Group     string    `firestore:"group"              json:"group"`
	District  string    `firestore:"district"           json:"district"`
	Thana     string    `firestore:"thana"              json:"thana"`
	Gender    string    `firestore:"gender"             json:"gender"`
	Age       int       `firestore:"age,omitempty"      json:"age,omitempty"`
	LastDate  string    `firestore:"lastDate,omitempty" json:"lastDate,omitempty"`
	CreatedAt time.Time `firestore:"createdAt"          json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"          json:"updatedAt"`

	Extra map[string]any `firestore:"extra,omitempty" json:"extra,omitempty"`
}

func newRecord(params CreateParams, now time.Time) record {
	return record{
		Name:      strings.TrimSpace(params.Name),
		Email:     normalizeEmail(params.Email),
		Phone:     strings.TrimSpace(params.Phone),
		Image:     strings.TrimSpace(params.Image),
		Group:     NormalizeGroup(params.Group),
		District:  strings.TrimSpace(params.District),
		Thana:     strings.TrimSpace(params.Thana),
		Gender:    strings.TrimSpace(params.Gender),
		Age:       params.Age,
		LastDate:  strings.TrimSpace(params.LastDate),
		CreatedAt: now,
		UpdatedAt: now,
		Extra:     params.Extra,
	}
}

func (r record) toDonor(id string) Donor {
	return Donor{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Image:     r.Image,
		Group:     r.Group,
		District:  r.District,
		Thana:     r.Thana,
		Gender:    r.Gender,
		Age:       r.Age,
		LastDate:  r.LastDate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Extra:     r.Extra,
	}
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrEmailMismatch):
		return "email_mismatch"
	default:
		return "internal_error"
	}
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for dateDiff and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
