package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthority(t *testing.T) *Authority {
	a, err := NewAuthority(GenerateSecureSecret(), time.Hour)
	require.NoError(t, err)
	return a
}

func TestIssueAndValidate(t *testing.T) {
	a := newAuthority(t)

	token, err := a.Issue("alice", true)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."), "формат JWT")

	claims, err := a.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Painter)
	assert.True(t, claims.CanWrap)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestValidate_Invalid(t *testing.T) {
	a := newAuthority(t)

	for _, token := range []string{
		"",
		"invalid.token.here",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	} {
		_, err := a.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestValidate_ForeignSecret(t *testing.T) {
	token, err := newAuthority(t).Issue("bob", false)
	require.NoError(t, err)

	_, err = newAuthority(t).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	a := newAuthority(t)
	claims := &Claims{
		Painter: "carol",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    Issuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	require.NoError(t, err)

	_, err = a.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewAuthority_Secrets(t *testing.T) {
	_, err := NewAuthority("c2hvcnQ=", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewAuthority("not base64!", time.Hour)
	assert.Error(t, err)

	a, err := NewAuthority("", 0)
	require.NoError(t, err)
	assert.Len(t, a.secret, 32)
	assert.Equal(t, 24*time.Hour, a.ttl)
}

func TestKeyHash(t *testing.T) {
	hash, err := HashKey("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckKey(hash, "s3cret"))
	assert.False(t, CheckKey(hash, "other"))
	assert.False(t, CheckKey("garbage", "s3cret"))
}
