package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)

	token, err := GenerateToken(42, "admin")
	require.NoError(t, err)

	claims, err := ParseToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	claims, err = ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestParseTokenRejectsInvalid(t *testing.T) {
	InitJWT("unit-test-secret", time.Hour)

	_, err := ParseToken("Bearer ")
	assert.Error(t, err)
	_, err = ParseToken("not-a-token")
	assert.Error(t, err)

	// 其他密钥签发的令牌
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1})
	signed, err := other.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.Error(t, err)

	// 已过期
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err = expired.SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
}

func TestRequestID(t *testing.T) {
	existing := "8f14e45f-ceea-467a-9575-2f1b1b1d0c52"
	assert.Equal(t, existing, RequestID(existing))

	generated := RequestID("<script>")
	assert.NotEqual(t, "<script>", generated)
	assert.Len(t, generated, 36)
	assert.NotEqual(t, RequestID(""), RequestID(""))
}
