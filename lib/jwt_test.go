package lib

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("amia", "s3cret", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/admin/orders", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	claims, err := ExtractClaims(r, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "amia", claims.Sub)
	assert.Equal(t, AdminRole, claims.Role)
}

func TestAdminTokenRejected(t *testing.T) {
	token, err := GenerateAdminToken("amia", "s3cret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "wrong")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateAdminToken("amia", "s3cret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, "s3cret")
	assert.ErrorIs(t, err, ErrExpiredToken)

	r := httptest.NewRequest("GET", "/admin/orders", nil)
	_, err = ExtractClaims(r, "s3cret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
