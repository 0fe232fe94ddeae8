package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	token := EncodeToken(42)
	assert.NotEmpty(t, token, "Token should not be empty")

	logNumber, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, int64(42), logNumber, "Log number should match after decode")

	// Large values survive the round trip
	big := int64(1) << 40
	logNumber, err = DecodeToken(EncodeToken(big))
	assert.NoError(t, err)
	assert.Equal(t, big, logNumber)
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("log42")))
	assert.Error(t, err, "Should return an error for a token without separator")
	assert.Contains(t, err.Error(), "split")

	// Test wrong prefix
	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("journal|42")))
	assert.Error(t, err, "Should return an error for a foreign token")

	// Test non-numeric log number
	_, err = DecodeToken(base64.StdEncoding.EncodeToString([]byte("log|abc")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "log number parse")

	// Test non-positive log number
	_, err = DecodeToken(EncodeToken(0))
	assert.Error(t, err)
}
