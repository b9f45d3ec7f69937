package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abkawan/bankbook/internal/ledger"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("stores a bcrypt hash, never the password", func(t *testing.T) {
		user, err := f.users.Register(ctx, "Grace", "grace@example.com", "s3cret")
		require.NoError(t, err)
		assert.NotEqual(t, "s3cret", user.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		_, err := f.users.Register(ctx, "Other", "grace@example.com", "whatever")
		require.ErrorIs(t, err, ledger.ErrEmailTaken)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		_, err := f.users.Register(ctx, "Grace", "not-an-email", "s3cret")
		require.ErrorIs(t, err, ledger.ErrInvalidEmail)
	})

	t.Run("requires name and password", func(t *testing.T) {
		_, err := f.users.Register(ctx, "", "empty@example.com", "s3cret")
		require.Error(t, err)
		_, err = f.users.Register(ctx, "Grace", "empty@example.com", "")
		require.Error(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := f.users.Authenticate(ctx, "ada@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, f.user.ID, user.ID)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, err := f.users.Authenticate(ctx, "ada@example.com", "wrong")
		require.ErrorIs(t, err, ledger.ErrInvalidCredentials)
		_, err = f.users.Authenticate(ctx, "nobody@example.com", "correct horse")
		require.ErrorIs(t, err, ledger.ErrInvalidCredentials)
	})
}
