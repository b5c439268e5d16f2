package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testJWT(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "secret", AccessTokenExp: exp, TokenIssuer: "registrar.test"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testJWT(time.Hour)

	token, expiresIn, err := svc.GenerateAccessToken("s1@x.com", "STUDENT")
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s1@x.com", claims.Username())
	assert.Equal(t, "STUDENT", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := testJWT(time.Hour)
	token, _, err := svc.GenerateAccessToken("s1@x.com", "STUDENT")
	require.NoError(t, err)

	_, err = NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "registrar.test"}).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTService(JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"}).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := testJWT(-time.Minute).GenerateAccessToken("s1@x.com", "STUDENT")
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", token)

	token, err = ExtractBearerToken("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", token)

	_, err = ExtractBearerToken("Basic dXNlcjpwdw==")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", hash)
	assert.True(t, h.Compare(hash, "pw"))
	assert.False(t, h.Compare(hash, "PW"))

	_, err = h.Hash("")
	assert.Error(t, err)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordLength+1))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	assert.Equal(t, DefaultBcryptCost, NewBcryptHasher(0).cost)
}
