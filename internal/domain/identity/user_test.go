package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with normalized email", func(t *testing.T) {
		user, err := NewUser("  Owner@Example.COM ", "Password123", "Owner")

		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", user.Email)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "Password123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("Password123"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("user id doubles as tenant", func(t *testing.T) {
		user, err := NewUser("a@example.com", "Password123", "")

		require.NoError(t, err)
		assert.Equal(t, user.ID, user.Tenant())
		assert.Equal(t, "a@example.com", user.DisplayName())
	})

	t.Run("joined tenant overrides own id", func(t *testing.T) {
		user, err := NewUser("a@example.com", "Password123", "")
		require.NoError(t, err)
		tenant := uuid.New()

		require.NoError(t, user.JoinTenant(tenant))

		assert.Equal(t, tenant, user.Tenant())
		assert.Error(t, user.JoinTenant(uuid.Nil))
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "Password123", "")
		assert.Error(t, err)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		for _, pw := range []string{"", "short1", "allletters", "12345678"} {
			_, err := NewUser("a@example.com", pw, "")
			assert.Error(t, err, pw)
		}
	})
}

func TestUser_LoginTracking(t *testing.T) {
	user, err := NewUser("a@example.com", "Password123", "")
	require.NoError(t, err)

	t.Run("locks after max attempts", func(t *testing.T) {
		assert.False(t, user.RecordLoginFailure(3, time.Minute))
		assert.False(t, user.RecordLoginFailure(3, time.Minute))
		assert.True(t, user.RecordLoginFailure(3, time.Minute))

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock allows login", func(t *testing.T) {
		past := time.Now().Add(-time.Second)
		user.LockedUntil = &past

		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("successful login resets failures", func(t *testing.T) {
		user.RecordLoginSuccess("127.0.0.1")

		assert.Equal(t, 0, user.FailedAttempts)
		assert.Equal(t, UserStatusActive, user.Status)
		require.NotNil(t, user.LastLoginAt)
		assert.Equal(t, "127.0.0.1", user.LastLoginIP)
	})

	t.Run("deactivated users cannot log in", func(t *testing.T) {
		user.Deactivate()
		assert.False(t, user.CanLogin())
		user.Activate()
		assert.True(t, user.CanLogin())
	})
}
