package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/domain"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/service"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/store/drivers/sqlite"
	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/token"
	"github.com/onkyoh/paper-kitchen-api/pkg/idx"
)

type testEnv struct {
	store store.Store
	codec *token.Codec

	users       *service.UserService
	resources   *service.ResourceService
	shares      *service.ShareService
	join        *service.JoinService
	permissions *service.Permissions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec, err := token.NewCodec([]byte("test-signing-secret"), "paper-kitchen-test")
	require.NoError(t, err)

	perms := &service.Permissions{Store: st}

	return &testEnv{
		store:       st,
		codec:       codec,
		users:       &service.UserService{Store: st, Codec: codec},
		resources:   &service.ResourceService{Store: st, Permissions: perms},
		shares:      &service.ShareService{Store: st, Codec: codec, Permissions: perms},
		join:        &service.JoinService{Store: st, Codec: codec},
		permissions: perms,
	}
}

func (e *testEnv) createUser(t *testing.T, name, username string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Username:     username,
		PasswordHash: "unused",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) createResource(t *testing.T, kind domain.Kind, ownerID, title string) domain.Resource {
	t.Helper()

	res, err := e.resources.Create(context.Background(), kind, ownerID, title, "bg-emerald-400", nil)
	require.NoError(t, err)
	return res
}

func boolPtr(b bool) *bool { return &b }
