package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// parse mirrors what the session middleware runs on the cookie value.
func parse(iss *Issuer, raw string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(raw, NewClaims(), iss.Keyfunc)
	if err != nil {
		return uuid.Nil, Classify(err)
	}
	return UserID(token)
}

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	iss := NewIssuer(testSecret, 24*time.Hour)
	id := uuid.New()

	tok, exp, err := iss.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)

	got, err := parse(iss, tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseExpired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer(testSecret, time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := iss.Issue(uuid.New())
	require.NoError(t, err)

	_, err = parse(iss, tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseWrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewIssuer(testSecret, time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = parse(NewIssuer("another-secret-another-secret-xx", time.Hour), tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	_, err := parse(NewIssuer(testSecret, time.Hour), "not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestKeyfuncRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok := sign(t, jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := parse(NewIssuer(testSecret, time.Hour), tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestUserIDRejectsNonUUIDSubject(t *testing.T) {
	t.Parallel()

	tok := sign(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := parse(NewIssuer(testSecret, time.Hour), tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestUserIDRequiresExpiry(t *testing.T) {
	t.Parallel()

	tok := sign(t, jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: uuid.NewString()})

	_, err := parse(NewIssuer(testSecret, time.Hour), tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestClassifyPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	assert.Same(t, boom, Classify(boom))
	assert.NoError(t, Classify(nil))
}
