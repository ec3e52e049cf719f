package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-signing-key", time.Hour, "attenda")

	signed, err := tokens.Issue(42, "someone")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userID, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestVerifyRejects(t *testing.T) {
	tokens := NewTokenService("test-signing-key", time.Hour, "attenda")

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewTokenService("another-key", time.Hour, "attenda")

		signed, err := other.Issue(42, "someone")
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		shortLived := NewTokenService("test-signing-key", -time.Minute, "attenda")

		signed, err := shortLived.Issue(42, "someone")
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
