package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/biosecret/portfolio-api/database"
)

func newTestService(t *testing.T) (*Service, *database.FileStore) {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store, "test-secret", time.Hour), store
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	require.NoError(t, svc.Register(ctx, "alice", "hunter2", "alice@example.com"))

	u, err := store.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", u.Password)
	cost, err := bcrypt.Cost([]byte(u.Password))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	assert.ErrorIs(t, svc.Register(ctx, "alice", "other", ""), ErrUserExists)
	assert.ErrorIs(t, svc.Register(ctx, "", "pw", ""), ErrMissingCredentials)
	assert.ErrorIs(t, svc.Register(ctx, "bob", "", ""), ErrMissingCredentials)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.Register(ctx, "alice", "hunter2", "alice@example.com"))

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost", "hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("username is trimmed like on register", func(t *testing.T) {
		require.NoError(t, svc.Register(ctx, " bob ", "pw", ""))
		_, user, err := svc.Login(ctx, " bob ", "pw")
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)
	})

	t.Run("token carries username and email", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "alice", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@example.com", user.Email)

		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "alice@example.com", claims.Email)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})
}

func TestParseToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	require.NoError(t, svc.Register(ctx, "alice", "hunter2", ""))
	token, _, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := NewService(nil, "test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService(nil, "another-secret", time.Hour)
		_, err := other.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ParseToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned algorithm is rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Username: "alice",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiry is rejected", func(t *testing.T) {
		noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "alice"})
		raw, err := noExp.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ParseToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
