// Package notify stores push subscriptions and fans notifications out to
// every subscription a donor registered.
package notify

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/Kamrul101/donate-red-server/internal/platform/badgerdb"
	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
)

// Collection holds push subscriptions in both backends.
const Collection = "subscriptions"

// ErrInvalidSubscription is returned when email or token is empty.
var ErrInvalidSubscription = errors.New("subscription requires email and token")

// Subscription ties a device token to a donor email. Duplicates are kept.
type Subscription struct {
	ID        string
	Email     string
	Token     string
	CreatedAt time.Time
}

// SubscriptionStore persists subscriptions.
type SubscriptionStore interface {
	Subscribe(ctx context.Context, email, token string) (*Subscription, error)
	ListByEmail(ctx context.Context, email string) ([]Subscription, error)
}

type record struct {
	Email     string    `firestore:"email"     json:"email"`
	Token     string    `firestore:"token"     json:"token"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

func newRecord(email, token string, now time.Time) (record, error) {
	rec := record{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Token:     strings.TrimSpace(token),
		CreatedAt: now.UTC(),
	}
	if rec.Email == "" || rec.Token == "" {
		return record{}, ErrInvalidSubscription
	}
	return rec, nil
}

func (r record) toSubscription(id string) Subscription {
	return Subscription{ID: id, Email: r.Email, Token: r.Token, CreatedAt: r.CreatedAt}
}

func categorizeError(err error) string {
	if errors.Is(err, ErrInvalidSubscription) {
		return "invalid_subscription"
	}
	return "internal_error"
}

func auditSubscribe(ctx context.Context, email, id string, err error) {
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "subscribe",
		Actor:        email,
		ResourceType: "subscription",
		ResourceID:   id,
	}, err, categorizeError)
}

func sortSubscriptions(subs []Subscription) {
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].CreatedAt.Equal(subs[j].CreatedAt) {
			return subs[i].CreatedAt.Before(subs[j].CreatedAt)
		}
		return subs[i].ID < subs[j].ID
	})
}

// FirestoreStore implements SubscriptionStore using Firestore.
type FirestoreStore struct {
	client *firestore.Client
	now    func() time.Time
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client, now: time.Now}
}

func (s *FirestoreStore) Subscribe(ctx context.Context, email, token string) (*Subscription, error) {
	rec, err := newRecord(email, token, s.now())
	if err != nil {
		auditSubscribe(ctx, email, "", err)
		return nil, err
	}

	docRef := s.client.Collection(Collection).NewDoc()
	_, err = docRef.Create(ctx, rec)
	auditSubscribe(ctx, rec.Email, docRef.ID, err)
	if err != nil {
		return nil, err
	}
	sub := rec.toSubscription(docRef.ID)
	return &sub, nil
}

func (s *FirestoreStore) ListByEmail(ctx context.Context, email string) ([]Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	docs, err := s.client.Collection(Collection).Where("email", "==", email).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	subs := make([]Subscription, 0, len(docs))
	for _, doc := range docs {
		var rec record
		if err := doc.DataTo(&rec); err != nil {
			return nil, err
		}
		subs = append(subs, rec.toSubscription(doc.Ref.ID))
	}
	sortSubscriptions(subs)
	return subs, nil
}

// BadgerStore implements SubscriptionStore on the embedded Badger store.
type BadgerStore struct {
	db  *badgerdb.DB
	now func() time.Time
}

// NewBadgerStore creates a Badger-backed store.
func NewBadgerStore(db *badgerdb.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

func (s *BadgerStore) Subscribe(ctx context.Context, email, token string) (*Subscription, error) {
	rec, err := newRecord(email, token, s.now())
	if err != nil {
		auditSubscribe(ctx, email, "", err)
		return nil, err
	}

	id := badgerdb.NewID()
	err = s.db.Update(func(txn *badger.Txn) error {
		return badgerdb.Put(txn, Collection, id, rec)
	})
	auditSubscribe(ctx, rec.Email, id, err)
	if err != nil {
		return nil, err
	}
	sub := rec.toSubscription(id)
	return &sub, nil
}

func (s *BadgerStore) ListByEmail(_ context.Context, email string) ([]Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	subs := []Subscription{}
	err := s.db.View(func(txn *badger.Txn) error {
		return badgerdb.Each(txn, Collection, func(id string, rec record) error {
			if rec.Email == email {
				subs = append(subs, rec.toSubscription(id))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortSubscriptions(subs)
	return subs, nil
}

// Compile-time interface checks
var (
	_ SubscriptionStore = (*FirestoreStore)(nil)
	_ SubscriptionStore = (*BadgerStore)(nil)
)
