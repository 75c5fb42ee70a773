package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamrul101/donate-red-server/internal/platform/badgerdb"
)

type tickingClock struct {
	t time.Time
}

func (c *tickingClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newBadgerTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	db, err := badgerdb.Open(badgerdb.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := &tickingClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewBadgerStore(db, WithClock(clock.now))
}

func sampleParams() CreateParams {
	return CreateParams{
		DonorID:     "AbCdEfGhIjKlMnOpQrSt",
		DonorEmail:  " Donor@Example.com ",
		DonorName:   "Karim",
		SeekerEmail: "SEEKER@example.com",
		SeekerName:  "Rahim",
		SeekerPhone: "01700000000",
		Group:       "o+",
		Hospital:    "Dhaka Medical",
		Location:    "Shahbag",
		NeedDate:    "2025-01-05",
		Message:     "urgent",
	}
}

func TestBadgerCreateNormalizesAndStartsPending(t *testing.T) {
	store := newBadgerTestStore(t)

	r, err := store.Create(context.Background(), sampleParams())
	require.NoError(t, err)

	assert.Len(t, r.ID, badgerdb.IDLength)
	assert.Equal(t, "donor@example.com", r.DonorEmail)
	assert.Equal(t, "seeker@example.com", r.SeekerEmail)
	assert.Equal(t, "O+", r.Group)
	assert.Equal(t, StatePending, r.State)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestBadgerDuplicatesAllowed(t *testing.T) {
	store := newBadgerTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, sampleParams())
	require.NoError(t, err)
	second, err := store.Create(ctx, sampleParams())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "expected oldest first")
}

func TestBadgerListEmpty(t *testing.T) {
	store := newBadgerTestStore(t)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestBadgerFind(t *testing.T) {
	store := newBadgerTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, sampleParams())
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleParams())
	require.NoError(t, err)

	got, err := store.Find(ctx, "AbCdEfGhIjKlMnOpQrSt", " seeker@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = store.Find(ctx, "AbCdEfGhIjKlMnOpQrSt", "other@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerUpdateState(t *testing.T) {
	store := newBadgerTestStore(t)
	ctx := context.Background()

	r, err := store.Create(ctx, sampleParams())
	require.NoError(t, err)

	require.NoError(t, store.UpdateState(ctx, r.ID, StateAccepted))
	got, err := store.Find(ctx, r.DonorID, r.SeekerEmail)
	require.NoError(t, err)
	assert.Equal(t, StateAccepted, got.State)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	// Transitions are unconditional.
	require.NoError(t, store.UpdateState(ctx, r.ID, StatePending))
	got, err = store.Find(ctx, r.DonorID, r.SeekerEmail)
	require.NoError(t, err)
	assert.Equal(t, StatePending, got.State)
}

func TestBadgerUpdateStateErrors(t *testing.T) {
	store := newBadgerTestStore(t)
	ctx := context.Background()

	err := store.UpdateState(ctx, "AAAAAAAAAAAAAAAAAAAA", StateRejected)
	assert.ErrorIs(t, err, ErrNotFound)

	r, err := store.Create(ctx, sampleParams())
	require.NoError(t, err)
	err = store.UpdateState(ctx, r.ID, State("cancelled"))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBadgerDelete(t *testing.T) {
	store := newBadgerTestStore(t)
	ctx := context.Background()

	r, err := store.Create(ctx, sampleParams())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, r.ID))
	_, err = store.Find(ctx, r.DonorID, r.SeekerEmail)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, r.ID), ErrNotFound)
}

func TestMissingStateReadsPending(t *testing.T) {
	r := record{DonorID: "x"}.toRequest("id")
	assert.Equal(t, StatePending, r.State)
}

func TestParseState(t *testing.T) {
	for _, in := range []string{"pending", "Accepted", " REJECTED "} {
		_, err := ParseState(in)
		assert.NoError(t, err, in)
	}
	for _, in := range []string{"", "done", "accept"} {
		_, err := ParseState(in)
		assert.ErrorIs(t, err, ErrInvalidState, in)
	}
}
