// Copyright (c) 2026 Critiq. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/critiq/internal/platform/sec"
)

/*
TestGenerateSecureToken verifies token length and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(16)
	require.NoError(t, err)
	// Hex encoding doubles the byte length.
	assert.Len(t, first, 32)

	second, err := sec.GenerateSecureToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

/*
TestVerifyTokenHash verifies the hash round trip and rejection paths.
*/
func TestVerifyTokenHash(t *testing.T) {
	token, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	storedHash := sec.HashToken(token)
	assert.NotEqual(t, token, storedHash)

	assert.True(t, sec.VerifyTokenHash(token, storedHash))
	assert.False(t, sec.VerifyTokenHash("wrong-token", storedHash))
	assert.False(t, sec.VerifyTokenHash(token, "wrong-hash"))
	assert.False(t, sec.VerifyTokenHash("", ""))
}
