package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationCodeFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := newVerificationCode()
		require.NoError(t, err)
		require.Regexp(t, `^\d{6}$`, code)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		token, err := newSessionToken()
		require.NoError(t, err)
		require.Regexp(t, `^session_[0-9a-f]{32}$`, token)
		_, dup := seen[token]
		require.False(t, dup, "token collision: %s", token)
		seen[token] = struct{}{}
	}
}
