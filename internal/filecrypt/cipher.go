package filecrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/filevault/filevault-server/internal/model"
)

// Cipher deterministically maps filenames to filesystem-safe tokens and back.
// Key and IV are derived once from a shared secret and never rotated: the
// fixed IV makes encryption deterministic so a requested filename can be
// re-encrypted for direct storage lookup. Identical names therefore produce
// identical tokens, a known confidentiality trade-off kept on purpose.
type Cipher struct {
	key []byte
	iv  []byte
}

// NewCipher derives the AES-256 key as SHA-256(secret) and the IV as the
// first 16 bytes of SHA-256(secret + "IV").
func NewCipher(secret string) *Cipher {
	key := sha256.Sum256([]byte(secret))
	ivHash := sha256.Sum256([]byte(secret + "IV"))

	return &Cipher{
		key: key[:],
		iv:  ivHash[:aes.BlockSize],
	}
}

// EncryptName encrypts the UTF-8 bytes of name with AES-CBC and PKCS#7
// padding and encodes the ciphertext as URL-safe unpadded base64.
func (c *Cipher) EncryptName(name string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := pad([]byte(name), aes.BlockSize)
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(ciphertext, plaintext)

	token := base64.StdEncoding.EncodeToString(ciphertext)
	token = strings.ReplaceAll(token, "+", "-")
	token = strings.ReplaceAll(token, "/", "_")
	token = strings.TrimRight(token, "=")

	return token, nil
}

// DecryptName reverses EncryptName. Malformed tokens, ciphertext of the wrong
// length and invalid padding all return an error wrapping model.ErrDecryption
// so callers can treat them uniformly as "bad request".
func (c *Cipher) DecryptName(token string) (string, error) {
	encoded := strings.ReplaceAll(token, "-", "+")
	encoded = strings.ReplaceAll(encoded, "_", "/")
	switch len(encoded) % 4 {
	case 2:
		encoded += "=="
	case 3:
		encoded += "="
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", model.ErrDecryption)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid ciphertext length", model.ErrDecryption)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: invalid padding", model.ErrDecryption)
	}

	return string(unpadded), nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
