package password

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_Format(t *testing.T) {
	stored, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	parts := strings.Split(stored, ".")
	require.Len(t, parts, 2)

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.Len(t, salt, 16)

	key, err := base64.StdEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestVerify_Roundtrip(t *testing.T) {
	stored, err := Hash("s3cret-password")
	require.NoError(t, err)

	assert.True(t, Verify("s3cret-password", stored))
	assert.False(t, Verify("wrong-password", stored))
}

func TestHash_SaltRandomized(t *testing.T) {
	first, err := Hash("same password")
	require.NoError(t, err)
	second, err := Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify("same password", first))
	assert.True(t, Verify("same password", second))
}

func TestVerify_MalformedStored(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{name: "empty", stored: ""},
		{name: "no separator", stored: "abcdef"},
		{name: "too many parts", stored: "a.b.c"},
		{name: "salt not base64", stored: "!!!.aGFzaA=="},
		{name: "hash not base64", stored: "c2FsdA==.!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify("anything", tt.stored))
		})
	}
}
