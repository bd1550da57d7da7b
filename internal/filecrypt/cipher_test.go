package filecrypt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault-server/internal/model"
)

func TestCipher_Roundtrip(t *testing.T) {
	c := NewCipher("shared-secret")

	names := []string{
		"report",
		"annual report 2025",
		"relatório-final",
		"a",
		strings.Repeat("x", 255),
	}

	for _, name := range names {
		token, err := c.EncryptName(name)
		require.NoError(t, err)

		got, err := c.DecryptName(token)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestCipher_Deterministic(t *testing.T) {
	c := NewCipher("shared-secret")

	first, err := c.EncryptName("invoice")
	require.NoError(t, err)
	second, err := c.EncryptName("invoice")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCipher_TokenIsFilesystemSafe(t *testing.T) {
	c := NewCipher("shared-secret")

	token, err := c.EncryptName("some file with spaces and ünïcode")
	require.NoError(t, err)

	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}

func TestCipher_DifferentSecretsDiffer(t *testing.T) {
	a, err := NewCipher("secret-a").EncryptName("invoice")
	require.NoError(t, err)
	b, err := NewCipher("secret-b").EncryptName("invoice")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCipher_DecryptMalformed(t *testing.T) {
	c := NewCipher("shared-secret")

	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "not-valid-base64!!"},
		{name: "empty", token: ""},
		{name: "wrong block length", token: "YWJj"},
		{name: "garbage blocks", token: strings.Repeat("A", 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.DecryptName(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrDecryption)
		})
	}
}
