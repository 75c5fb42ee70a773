package donor

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
	"github.com/Kamrul101/donate-red-server/internal/service/eligibility"
	"github.com/Kamrul101/donate-red-server/internal/service/request"
)

// FirestoreStore implements Service using Firestore with transactions.
type FirestoreStore struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client, opts ...Option) *FirestoreStore {
	o := buildOptions(opts)
	return &FirestoreStore{client: client, now: o.now}
}

func (s *FirestoreStore) collection() *firestore.CollectionRef {
	return s.client.Collection(Collection)
}

// List pushes the equality filters down to Firestore. dateDiff depends on
// now, so ordering and paging happen here.
func (s *FirestoreStore) List(ctx context.Context, params ListParams) (*Page, error) {
	params = params.normalize()

	q := s.collection().Query
	if params.Group != "" {
		q = q.Where("group", "==", params.Group)
	}
	if params.Thana != "" {
		q = q.Where("thana", "==", params.Thana)
	}

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	candidates, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}
	return selectPage(candidates, params, s.now()), nil
}

// Get retrieves a donor by document ID.
func (s *FirestoreStore) Get(ctx context.Context, id string) (*Donor, error) {
	doc, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rec record
	if err := doc.DataTo(&rec); err != nil {
		return nil, err
	}
	d := rec.toDonor(id)
	annotate(&d, s.now())
	return &d, nil
}

// GetByEmail retrieves the donor registered under email.
func (s *FirestoreStore) GetByEmail(ctx context.Context, email string) (*Donor, error) {
	docs, err := s.collection().Where("email", "==", normalizeEmail(email)).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	donors, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}
	if len(donors) == 0 {
		return nil, ErrNotFound
	}
	d := donors[0]
	annotate(&d, s.now())
	return &d, nil
}

// Count runs a server-side aggregation instead of reading every document.
func (s *FirestoreStore) Count(ctx context.Context) (int64, error) {
	res, err := s.collection().NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result %T", res["all"])
	}
	return v.GetIntegerValue(), nil
}

// Register checks the email and inserts in one transaction so two
// concurrent registrations cannot both succeed.
func (s *FirestoreStore) Register(ctx context.Context, params CreateParams) (*Donor, error) {
	rec := newRecord(params, s.now().UTC())
	docRef := s.collection().NewDoc()

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(s.collection().Where("email", "==", rec.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrAlreadyExists
		}
		return tx.Create(docRef, rec)
	})
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "register",
		Actor:        rec.Email,
		ResourceType: "donor",
		ResourceID:   docRef.ID,
	}, err, categorizeError)
	if err != nil {
		return nil, err
	}

	d := rec.toDonor(docRef.ID)
	annotate(&d, s.now())
	return &d, nil
}

// RecordDonation stamps lastDate and deletes the donor's requests
// atomically.
func (s *FirestoreStore) RecordDonation(ctx context.Context, id, email string) (*Donation, error) {
	docRef := s.collection().Doc(id)
	now := s.now()
	today := eligibility.Today(now)

	var result *Donation
	var actor string

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		var rec record
		if err := doc.DataTo(&rec); err != nil {
			return err
		}
		actor = rec.Email
		if email != "" && normalizeEmail(email) != rec.Email {
			return ErrEmailMismatch
		}

		pending, err := tx.Documents(
			s.client.Collection(request.Collection).Where(request.FieldDonorEmail, "==", rec.Email),
		).GetAll()
		if err != nil {
			return err
		}

		if err := tx.Update(docRef, []firestore.Update{
			{Path: "lastDate", Value: today},
			{Path: "updatedAt", Value: now.UTC()},
		}); err != nil {
			return err
		}
		for _, p := range pending {
			if err := tx.Delete(p.Ref); err != nil {
				return err
			}
		}

		result = &Donation{LastDate: today, DeletedCount: len(pending)}
		return nil
	})
	details := map[string]any{}
	if result != nil && err == nil {
		details["deleted_requests"] = result.DeletedCount
	}
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "record_donation",
		Actor:        actor,
		ResourceType: "donor",
		ResourceID:   id,
		Details:      details,
	}, err, categorizeError)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func decodeAll(docs []*firestore.DocumentSnapshot) ([]Donor, error) {
	out := make([]Donor, 0, len(docs))
	for _, doc := range docs {
		var rec record
		if err := doc.DataTo(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec.toDonor(doc.Ref.ID))
	}
	return out, nil
}

// Compile-time interface check
var _ Service = (*FirestoreStore)(nil)
