package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService(testSecret, "eventos", time.Hour)

	token, issued, err := svc.Issue("user-1", "ada")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_DistinctSessionIDs(t *testing.T) {
	svc := NewTokenService(testSecret, "eventos", time.Hour)
	_, a, err := svc.Issue("user-1", "ada")
	require.NoError(t, err)
	_, b, err := svc.Issue("user-1", "ada")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(testSecret, "eventos", time.Minute)
	start := time.Now()
	svc.now = func() time.Time { return start }

	token, _, err := svc.Issue("user-1", "ada")
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	token, _, err := NewTokenService(testSecret, "someone-else", time.Hour).Issue("user-1", "ada")
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, "eventos", time.Hour).Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		Username: "ada",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "sid",
			Subject:   "user-1",
			Issuer:    "eventos",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, "eventos", time.Hour).Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RequiresSubject(t *testing.T) {
	svc := NewTokenService(testSecret, "eventos", time.Hour)
	token, _, err := svc.Issue("", "ada")
	require.NoError(t, err)
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
