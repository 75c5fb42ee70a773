package request

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
)

// FirestoreStore implements Service using Firestore.
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

// Create stores a new pending request under a Firestore auto-ID.
func (s *FirestoreStore) Create(ctx context.Context, params CreateParams) (*Request, error) {
	rec := newRecord(params, s.now().UTC())
	docRef := s.collection().NewDoc()

	_, err := docRef.Create(ctx, rec)
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "create",
		Actor:        rec.SeekerEmail,
		ResourceType: "request",
		ResourceID:   docRef.ID,
	}, err, categorizeError)
	if err != nil {
		return nil, err
	}

	r := rec.toRequest(docRef.ID)
	return &r, nil
}

// List returns every request, oldest first.
func (s *FirestoreStore) List(ctx context.Context) ([]Request, error) {
	docs, err := s.collection().OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return decodeAll(docs)
}

// Find returns the oldest request a seeker sent to a donor.
func (s *FirestoreStore) Find(ctx context.Context, donorID, seekerEmail string) (*Request, error) {
	docs, err := s.collection().
		Where("donorId", "==", donorID).
		Where("seekerEmail", "==", normalizeEmail(seekerEmail)).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	requests, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrNotFound
	}
	return &requests[0], nil
}

// UpdateState writes state unconditionally once the request is known to exist.
func (s *FirestoreStore) UpdateState(ctx context.Context, id string, state State) error {
	if _, err := ParseState(string(state)); err != nil {
		return err
	}
	docRef := s.collection().Doc(id)

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Update(docRef, []firestore.Update{
			{Path: "state", Value: string(state)},
			{Path: "updatedAt", Value: s.now().UTC()},
		})
	})
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "update_state",
		ResourceType: "request",
		ResourceID:   id,
		Details:      map[string]any{"state": string(state)},
	}, err, categorizeError)
	return err
}

// Delete removes a request using a transaction to ensure it exists.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	docRef := s.collection().Doc(id)

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(docRef)
	})
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "delete",
		ResourceType: "request",
		ResourceID:   id,
	}, err, categorizeError)
	return err
}

// decodeAll converts snapshots and orders them by creation time. Find
// cannot ask Firestore to order without a composite index.
func decodeAll(docs []*firestore.DocumentSnapshot) ([]Request, error) {
	out := make([]Request, 0, len(docs))
	for _, doc := range docs {
		var rec record
		if err := doc.DataTo(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec.toRequest(doc.Ref.ID))
	}
	sortByCreated(out)
	return out, nil
}

func sortByCreated(requests []Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.Before(requests[j].CreatedAt)
		}
		return requests[i].ID < requests[j].ID
	})
}

// Compile-time interface check
var _ Service = (*FirestoreStore)(nil)
