package donor

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Kamrul101/donate-red-server/internal/platform/badgerdb"
	applog "github.com/Kamrul101/donate-red-server/internal/platform/logging"
	"github.com/Kamrul101/donate-red-server/internal/service/eligibility"
	"github.com/Kamrul101/donate-red-server/internal/service/request"
)

// emailIndex maps a normalized email to its donor ID. Reading the index
// key inside Register makes concurrent registrations conflict on commit.
const emailIndex = "users_by_email"

const registerAttempts = 3

// BadgerStore implements Service on the embedded Badger store.
type BadgerStore struct {
	db  *badgerdb.DB
	now func() time.Time

	// beforeCommit runs as the last step of the donation transaction.
	beforeCommit func() error
}

// NewBadgerStore creates a Badger-backed store.
func NewBadgerStore(db *badgerdb.DB, opts ...Option) *BadgerStore {
	o := buildOptions(opts)
	return &BadgerStore{db: db, now: o.now}
}

func (s *BadgerStore) List(_ context.Context, params ListParams) (*Page, error) {
	params = params.normalize()

	var candidates []Donor
	err := s.db.View(func(txn *badger.Txn) error {
		return badgerdb.Each(txn, Collection, func(id string, rec record) error {
			candidates = append(candidates, rec.toDonor(id))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return selectPage(candidates, params, s.now()), nil
}

func (s *BadgerStore) Get(_ context.Context, id string) (*Donor, error) {
	var d Donor
	err := s.db.View(func(txn *badger.Txn) error {
		var rec record
		if err := badgerdb.Get(txn, Collection, id, &rec); err != nil {
			return translate(err)
		}
		d = rec.toDonor(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	annotate(&d, s.now())
	return &d, nil
}

func (s *BadgerStore) GetByEmail(_ context.Context, email string) (*Donor, error) {
	var d Donor
	err := s.db.View(func(txn *badger.Txn) error {
		var id string
		if err := badgerdb.Get(txn, emailIndex, normalizeEmail(email), &id); err != nil {
			return translate(err)
		}
		var rec record
		if err := badgerdb.Get(txn, Collection, id, &rec); err != nil {
			return translate(err)
		}
		d = rec.toDonor(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	annotate(&d, s.now())
	return &d, nil
}

func (s *BadgerStore) Count(_ context.Context) (int64, error) {
	var n int
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		n, err = badgerdb.Count(txn, Collection)
		return err
	})
	return int64(n), err
}

func (s *BadgerStore) Register(ctx context.Context, params CreateParams) (*Donor, error) {
	rec := newRecord(params, s.now().UTC())
	id := badgerdb.NewID()

	var err error
	for range registerAttempts {
		err = s.db.Update(func(txn *badger.Txn) error {
			var existing string
			err := badgerdb.Get(txn, emailIndex, rec.Email, &existing)
			switch {
			case err == nil:
				return ErrAlreadyExists
			case !errors.Is(err, badgerdb.ErrNotFound):
				return err
			}
			if err := badgerdb.Put(txn, Collection, id, rec); err != nil {
				return err
			}
			return badgerdb.Put(txn, emailIndex, rec.Email, id)
		})
		// A conflict means another registration committed the same email
		// first; the next attempt reads its index entry.
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	applog.LogAuditResult(ctx, applog.AuditEvent{
		Action:       "register",
		Actor:        rec.Email,
		ResourceType: "donor",
		ResourceID:   id,
	}, err, categorizeError)
	if err != nil {
		return nil, err
	}

	d := rec.toDonor(id)
	annotate(&d, s.now())
	return &d, nil
}

// requestRef is the part of a request document the cascade reads.
type requestRef struct {
	DonorEmail string `json:"donorEmail"`
}

func (s *BadgerStore) RecordDonation(ctx context.Context, id, email string) (*Donation, error) {
	now := s.now()
	today := eligibility.Today(now)

	var result *Donation
	var actor string

	err := s.db.Update(func(txn *badger.Txn) error {
		var rec record
		if err := badgerdb.Get(txn, Collection, id, &rec); err != nil {
			return translate(err)
		}
		actor = rec.Email
		if email != "" && normalizeEmail(email) != rec.Email {
			return ErrEmailMismatch
		}

		var pending []string
		err := badgerdb.Each(txn, request.Collection, func(reqID string, r requestRef) error {
			if normalizeEmail(r.DonorEmail) == rec.Email {
				pending = append(pending, reqID)
			}
			return nil
		})
		if err != nil {
			return err
		}

		rec.LastDate = today
		rec.UpdatedAt = now.UTC()
		if err := badgerdb.Put(txn, Collection, id, rec); err != nil {
			return err
		}
		for _, reqID := range pending {
			if err := badgerdb.Delete(txn, request.Collection, reqID); err != nil {
				return err
			}
		}
		if s.beforeCommit != nil {
			if err := s.beforeCommit(); err != nil {
				return err
			}
		}

		result = &Donation{LastDate: today, DeletedCount: len(pending)}
		return nil
	})
	details := map[string]any{}
	if err == nil {
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

func translate(err error) error {
	if errors.Is(err, badgerdb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Compile-time interface check
var _ Service = (*BadgerStore)(nil)
