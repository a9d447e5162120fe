package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryRoundTrip(t *testing.T) {
	codec := NewRecoveryCodec("recovery-secret", 15*time.Minute)

	raw, err := codec.Mint("user-9", PurposeResetPassword)
	require.NoError(t, err)

	id, purpose, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)
	assert.Equal(t, PurposeResetPassword, purpose)
}

func TestRecoveryCarriesPurpose(t *testing.T) {
	codec := NewRecoveryCodec("recovery-secret", 15*time.Minute)

	raw, err := codec.Mint("user-9", PurposeActivateAccount)
	require.NoError(t, err)

	_, purpose, err := codec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, PurposeActivateAccount, purpose)
	assert.NotEqual(t, PurposeResetPassword, purpose)
}

func TestRecoveryRejectsExpired(t *testing.T) {
	codec := NewRecoveryCodec("recovery-secret", -time.Minute)

	raw, err := codec.Mint("user-9", PurposeResetPassword)
	require.NoError(t, err)

	_, _, err = codec.Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRecoveryRejectsForeignSecret(t *testing.T) {
	codec := NewRecoveryCodec("recovery-secret", 15*time.Minute)
	other := NewRecoveryCodec("another-secret", 15*time.Minute)

	raw, err := other.Mint("user-9", PurposeResetPassword)
	require.NoError(t, err)

	_, _, err = codec.Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRecoveryRejectsSessionTokens(t *testing.T) {
	// A refresh token signed with the same secret still lacks the purpose
	// claim and must not decode as a recovery token.
	codec := NewRecoveryCodec("shared-secret", 15*time.Minute)
	iss := NewIssuer("shared-secret", "shared-secret", time.Hour, time.Hour)

	raw, err := iss.IssueRefresh(testUser())
	require.NoError(t, err)

	_, _, err = codec.Decode(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
