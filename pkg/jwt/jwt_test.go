package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/todomate/config"
)

func newTestManager() *Manager {
	return NewManager(config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "todomate",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateTokenPair(42)
	require.NoError(t, err)

	claims, err := m.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	refresh, err := m.ParseRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refresh.UserID)
}

func TestParse_WrongType(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateTokenPair(1)
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = m.ParseRefresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParse_Expired(t *testing.T) {
	m := newTestManager()
	token, err := m.GenerateAccess(1)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	_, err = m.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_ForeignSecret(t *testing.T) {
	other := NewManager(config.JWTConfig{Secret: "other", Issuer: "todomate", AccessTTL: time.Minute})
	token, err := other.GenerateAccess(1)
	require.NoError(t, err)

	_, err = newTestManager().ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestManager().ParseAccess("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
