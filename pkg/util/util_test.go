package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TushantKaura1/ai-micro-motivation/pkg/circuitbreaker"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-42", "secret", time.Hour, time.Now())
	require.NoError(t, err)

	userID, err := ParseJWT(token, "secret", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestJWTDefaultTTLIsThirtyDays(t *testing.T) {
	issued := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	token, err := GenerateJWT("user-42", "secret", 0, issued)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	exp, err := parsed.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Equal(t, issued.Add(30*24*time.Hour).Unix(), exp.Unix())
	iat, err := parsed.Claims.GetIssuedAt()
	require.NoError(t, err)
	assert.Equal(t, issued.Unix(), iat.Unix())
}

func TestJWTExpiryFollowsGivenTime(t *testing.T) {
	issued := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	token, err := GenerateJWT("user-42", "secret", time.Hour, issued)
	require.NoError(t, err)

	userID, err := ParseJWT(token, "secret", issued.Add(59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)

	_, err = ParseJWT(token, "secret", issued.Add(61*time.Minute))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	_, err = ParseJWT(token, "secret", time.Now())
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseJWTRejects(t *testing.T) {
	good, err := GenerateJWT("user-42", "secret", time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseJWT(good, "other-secret", time.Now())
	assert.Error(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-42",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret", time.Now())
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseJWT(noSubject, "secret", time.Now())
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = ParseJWT("not-a-token", "secret", time.Now())
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"Bearer abc": "abc",
		"bearer abc": "abc",
		"Basic abc":  "",
		"Bearer":     "",
		"Bearer a b": "",
	}
	for header, want := range cases {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, ExtractToken(r), "header %q", header)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("hunter3", hash))
}

func TestClassifyFailure(t *testing.T) {
	assert.Equal(t, "", ClassifyFailure(nil))
	assert.Equal(t, "circuit_open", ClassifyFailure(circuitbreaker.ErrCircuitBreakerOpen))
	assert.Equal(t, "timeout", ClassifyFailure(fmt.Errorf("call: %w", context.DeadlineExceeded)))
	assert.Equal(t, "canceled", ClassifyFailure(context.Canceled))
	assert.Equal(t, "quota", ClassifyFailure(errors.New("error, status code: 429, You exceeded your current quota")))
	assert.Equal(t, "auth", ClassifyFailure(errors.New("Incorrect API key provided")))
	assert.Equal(t, "unknown_error", ClassifyFailure(errors.New("weird")))
}
