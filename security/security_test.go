package security

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Rate Limiter Tests

func TestRedisLimiter_AllowUnderLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(db, 30)

	mock.ExpectIncr("ratelimit:1.2.3.4").SetVal(1)
	mock.ExpectExpire("ratelimit:1.2.3.4", time.Minute).SetVal(true)

	allowed, err := limiter.Allow(context.Background(), "ratelimit:1.2.3.4")

	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_BlockOverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(db, 30)

	mock.ExpectIncr("ratelimit:1.2.3.4").SetVal(31)

	allowed, err := limiter.Allow(context.Background(), "ratelimit:1.2.3.4")

	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiter_RedisDown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	limiter := NewRedisLimiter(db, 30)

	mock.ExpectIncr("ratelimit:1.2.3.4").SetErr(errors.New("connection refused"))

	_, err := limiter.Allow(context.Background(), "ratelimit:1.2.3.4")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit incr")
}

func TestUnlimited_AlwaysAllows(t *testing.T) {
	var limiter Limiter = Unlimited{}

	for i := 0; i < 100; i++ {
		allowed, err := limiter.Allow(context.Background(), "ratelimit:any")
		assert.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestIsSuspiciousUserAgent(t *testing.T) {
	tests := []struct {
		ua         string
		suspicious bool
	}{
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/126.0", false},
		{"Googlebot/2.1 (+http://www.google.com/bot.html)", true},
		{"my-scraper/1.0", true},
		{"spider", true},
		{"curl/8.5.0", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.suspicious, isSuspiciousUserAgent(tt.ua), "ua: %q", tt.ua)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	assert.Equal(t, "10.0.0.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", ClientIP(req))
}

// Session Tests

func TestSessionToken_Roundtrip(t *testing.T) {
	token, err := NewSessionToken("admin", "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	name, err := ParseSessionToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", name)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := NewSessionToken("admin", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionToken_Garbage(t *testing.T) {
	_, err := ParseSessionToken("not-a-token", "test-secret")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := NewSessionToken("admin", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "test-secret")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

// Credential Tests

func TestVerifyPassword_Plain(t *testing.T) {
	assert.True(t, VerifyPassword("senha123", "senha123"))
	assert.False(t, VerifyPassword("senha123", "senha124"))
	assert.False(t, VerifyPassword("senha123", ""))
}

func TestVerifyPassword_EmptyConfigNeverMatches(t *testing.T) {
	assert.False(t, VerifyPassword("", ""))
	assert.False(t, VerifyPassword("", "anything"))
}

func TestVerifyPassword_BcryptHash(t *testing.T) {
	hash, err := HashPassword("senha123")
	require.NoError(t, err)
	require.True(t, isBcryptHash(hash))

	assert.True(t, VerifyPassword(hash, "senha123"))
	assert.False(t, VerifyPassword(hash, "senha124"))
}
