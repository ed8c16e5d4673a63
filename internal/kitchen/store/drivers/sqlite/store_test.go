package sqlite_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store/drivers/sqlite"
	"github.com/onkyoh/paper-kitchen-api/pkg/idx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st *sqlite.Store, username string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         username,
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedResource(t *testing.T, st *sqlite.Store, kind domain.Kind, ownerID string) domain.Resource {
	t.Helper()

	now := time.Now().UTC()
	r := domain.Resource{
		ID:        idx.New().String(),
		Kind:      kind,
		OwnerID:   ownerID,
		Title:     "seed",
		Color:     "bg-red-400",
		Payload:   json.RawMessage(`{}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Resources().CreateResource(context.Background(), r))
	return r
}

func TestUniqueUsernameMapsToAlreadyExists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "alice")

	now := time.Now().UTC()
	err := st.Users().CreateUser(ctx, domain.User{
		ID:        idx.New().String(),
		Name:      "Other Alice",
		Username:  "alice",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestDuplicateMembershipMapsToAlreadyExists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, st, "alice")
	res := seedResource(t, st, domain.KindRecipe, owner.ID)

	m := domain.Membership{
		UserID:     owner.ID,
		ResourceID: res.ID,
		CanEdit:    true,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, st.Memberships().CreateMembership(ctx, m))

	err := st.Memberships().CreateMembership(ctx, m)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestShareLinkCodeCollisionMapsToAlreadyExists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	link := domain.ShareLink{Code: "deadbeef", Token: "tok", CreatedAt: time.Now().UTC()}
	require.NoError(t, st.ShareLinks().CreateShareLink(ctx, link))

	err := st.ShareLinks().CreateShareLink(ctx, link)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestMissingRowsMapToNotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Resources().GetResource(ctx, "missing", domain.KindRecipe)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Memberships().GetMembership(ctx, "nobody", "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.ShareLinks().GetShareLink(ctx, "00000000")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, st, "alice")
	boom := errors.New("boom")

	err := st.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()
		if err := tx.Resources().CreateResource(ctx, domain.Resource{
			ID:        "tx-res",
			Kind:      domain.KindGroceryList,
			OwnerID:   owner.ID,
			Title:     "doomed",
			Color:     "bg-red-400",
			Payload:   json.RawMessage(`{}`),
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Resources().GetResource(ctx, "tx-res", domain.KindGroceryList)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteShareLinksBefore(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, st.ShareLinks().CreateShareLink(ctx, domain.ShareLink{
		Code: "0000aaaa", Token: "old", CreatedAt: now.Add(-11 * 24 * time.Hour),
	}))
	require.NoError(t, st.ShareLinks().CreateShareLink(ctx, domain.ShareLink{
		Code: "0000bbbb", Token: "fresh", CreatedAt: now,
	}))

	removed, err := st.ShareLinks().DeleteShareLinksBefore(ctx, now.Add(-10*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	_, err = st.ShareLinks().GetShareLink(ctx, "0000bbbb")
	require.NoError(t, err)
}

func TestUpdateMissingResourceIsNotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	err := st.Resources().UpdateResource(ctx, domain.Resource{
		ID:        "missing",
		Kind:      domain.KindRecipe,
		Title:     "nope",
		Color:     "bg-red-400",
		Payload:   json.RawMessage(`{}`),
		UpdatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, st.Resources().DeleteResource(ctx, "missing"), store.ErrNotFound)
}
