package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onkyoh/paper-kitchen-api/internal/kitchen/service"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.users.Register(ctx, "Alice", "alice", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, sess.User.ID)
	require.NotEmpty(t, sess.Token)

	userID, name, err := env.codec.VerifyAccess(sess.Token)
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, userID)
	require.Equal(t, "Alice", name)

	again, err := env.users.Login(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, again.User.ID)
	require.NotEmpty(t, again.Token)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, "Alice", "alice", "password-one")
	require.NoError(t, err)

	_, err = env.users.Register(ctx, "Other Alice", "alice", "password-two")
	require.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, "Alice", "alice", "correct horse battery")
	require.NoError(t, err)

	_, err = env.users.Login(ctx, "alice", "wrong password")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	// Unknown user reports the same error as a wrong password.
	_, err = env.users.Login(ctx, "nobody", "whatever")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sess, err := env.users.Register(ctx, "Alice", "alice", "correct horse battery")
	require.NoError(t, err)

	user, err := env.users.GetProfile(ctx, sess.User.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", user.Name)
	require.Equal(t, "alice", user.Username)
}
