package request

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service errors
var (
	ErrNotFound     = errors.New("request not found")
	ErrInvalidState = errors.New("invalid request state")
)

const (
	// Collection holds donation request documents in both backends.
	Collection = "requests"
	// FieldDonorEmail is the stored field the donation cascade matches on.
	FieldDonorEmail = "donorEmail"
)

// State is the lifecycle position of a request.
type State string

const (
	StatePending  State = "pending"
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
)

// States lists every valid state in lifecycle order.
var States = []State{StatePending, StateAccepted, StateRejected}

// ParseState accepts a state name case-insensitively.
func ParseState(s string) (State, error) {
	st := State(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatePending, StateAccepted, StateRejected:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
	}
}

// Request is a seeker's ask for blood addressed to one donor.
type Request struct {
	ID          string
	DonorID     string
	DonorEmail  string
	DonorName   string
	SeekerEmail string
	SeekerName  string
	SeekerPhone string
	Group       string
	Hospital    string
	Location    string
	NeedDate    string
	Message     string
	State       State
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Extra holds request details submitted beyond the known fields.
	Extra map[string]any
}

// CreateParams for creating a request. New requests always start pending.
type CreateParams struct {
	DonorID     string
	DonorEmail  string
	DonorName   string
	SeekerEmail string
	SeekerName  string
	SeekerPhone string
	Group       string
	Hospital    string
	Location    string
	NeedDate    string
	Message     string
	Extra       map[string]any
}

// Service defines request lifecycle operations.
//
// Implementations must normalize emails (lowercase, trimmed). Duplicate
// requests for the same donor and seeker are allowed.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Request, error)
	List(ctx context.Context) ([]Request, error)
	Find(ctx context.Context, donorID, seekerEmail string) (*Request, error)
	UpdateState(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}

// record is the stored document shape shared by both backends.
type record struct {
	DonorID     string    `firestore:"donorId"          json:"donorId"`
	DonorEmail  string    `firestore:"donorEmail"       json:"donorEmail"`
	DonorName   string    `firestore:"donorName"        json:"donorName"`
	SeekerEmail string    `firestore:"seekerEmail"      json:"seekerEmail"`
	SeekerName  string    `firestore:"seekerName"       json:"seekerName"`
	SeekerPhone string    `firestore:"seekerPhone"      json:"seekerPhone"`
	Group       string    `firestore:"group"            json:"group"`
	Hospital    string    `firestore:"hospital"         json:"hospital"`
	Location    string    `firestore:"location"         json:"location"`
	NeedDate    string    `firestore:"needDate"         json:"needDate"`
	Message     string    `firestore:"message"          json:"message"`
	State       string    `firestore:"state,omitempty"  json:"state,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt"        json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"        json:"updatedAt"`

	Extra map[string]any `firestore:"extra,omitempty" json:"extra,omitempty"`
}

func newRecord(params CreateParams, now time.Time) record {
	return record{
		DonorID:     strings.TrimSpace(params.DonorID),
		DonorEmail:  normalizeEmail(params.DonorEmail),
		DonorName:   strings.TrimSpace(params.DonorName),
		SeekerEmail: normalizeEmail(params.SeekerEmail),
		SeekerName:  strings.TrimSpace(params.SeekerName),
		SeekerPhone: strings.TrimSpace(params.SeekerPhone),
		Group:       strings.ToUpper(strings.TrimSpace(params.Group)),
		Hospital:    strings.TrimSpace(params.Hospital),
		Location:    strings.TrimSpace(params.Location),
		NeedDate:    strings.TrimSpace(params.NeedDate),
		Message:     strings.TrimSpace(params.Message),
		State:       string(StatePending),
		CreatedAt:   now,
		UpdatedAt:   now,
		Extra:       params.Extra,
	}
}

// toRequest reads an absent state as pending.
func (r record) toRequest(id string) Request {
	st := State(r.State)
	if st == "" {
		st = StatePending
	}
	return Request{
		ID:          id,
		DonorID:     r.DonorID,
		DonorEmail:  r.DonorEmail,
		DonorName:   r.DonorName,
		SeekerEmail: r.SeekerEmail,
		SeekerName:  r.SeekerName,
		SeekerPhone: r.SeekerPhone,
		Group:       r.Group,
		Hospital:    r.Hospital,
		Location:    r.Location,
		NeedDate:    r.NeedDate,
		Message:     r.Message,
		State:       st,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Extra:       r.Extra,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	default:
		return "internal_error"
	}
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for createdAt and updatedAt.
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
