package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret99", 4)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret99"))
	assert.False(t, CheckPassword(hash, "secret98"))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	first, err := HashPassword("secret99", 4)
	require.NoError(t, err)
	second, err := HashPassword("secret99", 4)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "two hashes of the same password must differ")
}

func TestUserTokenRoundTrip(t *testing.T) {
	token, err := GenerateUserToken("user-secret", UserClaims{UserID: 42, Username: "client-1", FullName: "Client One"}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseUserToken("user-secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "client-1", claims.Username)
	assert.Equal(t, "Client One", claims.FullName)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("admin-secret", AdminClaims{AdminID: 7, AdminUsername: "manager-1", AdminName: "Manager One"}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAdminToken("admin-secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.AdminID)
	assert.Equal(t, "manager-1", claims.AdminUsername)
}

func TestTokenDomainsAreDisjoint(t *testing.T) {
	userToken, err := GenerateUserToken("user-secret", UserClaims{UserID: 42}, time.Hour)
	require.NoError(t, err)
	adminToken, err := GenerateAdminToken("admin-secret", AdminClaims{AdminID: 7}, time.Hour)
	require.NoError(t, err)

	// A user token never opens the admin surface and vice versa.
	_, err = ParseAdminToken("admin-secret", userToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ParseUserToken("user-secret", adminToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateUserToken("user-secret", UserClaims{UserID: 42}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseUserToken("user-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretIsRejected(t *testing.T) {
	token, err := GenerateUserToken("user-secret", UserClaims{UserID: 42}, time.Hour)
	require.NoError(t, err)

	_, err = ParseUserToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
