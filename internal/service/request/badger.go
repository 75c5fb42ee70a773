package request

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Kamrul101/donate-red-server/internal/platform/badgerdb"
	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
)

// BadgerStore implements Service on the embedded Badger store.
type BadgerStore struct {
	db  *badgerdb.DB
	now func() time.Time
}

// NewBadgerStore creates a Badger-backed store.
func NewBadgerStore(db *badgerdb.DB, opts ...Option) *BadgerStore {
	o := buildOptions(opts)
	return &BadgerStore{db: db, now: o.now}
}

func (s *BadgerStore) Create(ctx context.Context, params CreateParams) (*Request, error) {
	rec := newRecord(params, s.now().UTC())
	id := badgerdb.NewID()

	err := s.db.Update(func(txn *badger.Txn) error {
		return badgerdb.Put(txn, Collection, id, rec)
	})
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "create",
		Actor:        rec.SeekerEmail,
		ResourceType: "request",
		ResourceID:   id,
	}, err, categorizeError)
	if err != nil {
		return nil, err
	}

	r := rec.toRequest(id)
	return &r, nil
}

func (s *BadgerStore) List(_ context.Context) ([]Request, error) {
	return s.collect(func(Request) bool { return true })
}

func (s *BadgerStore) Find(_ context.Context, donorID, seekerEmail string) (*Request, error) {
	seekerEmail = normalizeEmail(seekerEmail)
	matches, err := s.collect(func(r Request) bool {
		return r.DonorID == donorID && r.SeekerEmail == seekerEmail
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (s *BadgerStore) UpdateState(ctx context.Context, id string, state State) error {
	if _, err := ParseState(string(state)); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var rec record
		if err := badgerdb.Get(txn, Collection, id, &rec); err != nil {
			return translate(err)
		}
		rec.State = string(state)
		rec.UpdatedAt = s.now().UTC()
		return badgerdb.Put(txn, Collection, id, rec)
	})
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "update_state",
		ResourceType: "request",
		ResourceID:   id,
		Details:      map[string]any{"state": string(state)},
	}, err, categorizeError)
	return err
}

func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return translate(badgerdb.Delete(txn, Collection, id))
	})
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "delete",
		ResourceType: "request",
		ResourceID:   id,
	}, err, categorizeError)
	return err
}

func (s *BadgerStore) collect(keep func(Request) bool) ([]Request, error) {
	out := []Request{}
	err := s.db.View(func(txn *badger.Txn) error {
		return badgerdb.Each(txn, Collection, func(id string, rec record) error {
			if r := rec.toRequest(id); keep(r) {
				out = append(out, r)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(out)
	return out, nil
}

func translate(err error) error {
	if errors.Is(err, badgerdb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Compile-time interface check
var _ Service = (*BadgerStore)(nil)
