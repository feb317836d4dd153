package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationEmail(t *testing.T) {
	msg, err := VerificationEmail("a@x.com", "Alice", "https://app.example.com/api/v1/users/verify/abc")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "Verify Your Email Address", msg.Subject)
	assert.Contains(t, msg.TextBody, "Hello Alice")
	assert.Contains(t, msg.TextBody, "https://app.example.com/api/v1/users/verify/abc")
	assert.Contains(t, msg.HTMLBody, `href="https://app.example.com/api/v1/users/verify/abc"`)
}

func TestPasswordResetEmail(t *testing.T) {
	msg, err := PasswordResetEmail("a@x.com", "Alice", "https://app.example.com/api/v1/users/reset-password/xyz", 10)
	require.NoError(t, err)

	assert.Equal(t, "Reset Your Password", msg.Subject)
	assert.Contains(t, msg.TextBody, "valid for 10 minutes")
	assert.Contains(t, msg.HTMLBody, "expire in 10 minutes")
	assert.Contains(t, msg.HTMLBody, "reset-password/xyz")
}

func TestHTMLBodyEscapesName(t *testing.T) {
	msg, err := VerificationEmail("a@x.com", "<script>alert(1)</script>", "https://app.example.com/v")
	require.NoError(t, err)

	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;")
}
