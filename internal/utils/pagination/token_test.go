package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	occurredAt := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 10, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(occurredAt, createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedOccurredAt, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, occurredAt, decodedOccurredAt, "Occurred at should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at should match after decode")

	// Zero time values round-trip as well.
	zeroTime := time.Time{}
	zeroToken := EncodeToken(zeroTime, zeroTime)
	decodedZeroOccurred, decodedZeroCreated, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, zeroTime, decodedZeroOccurred)
	assert.Equal(t, zeroTime, decodedZeroCreated)

	now := time.Now().UTC()
	nowToken := EncodeToken(now, now)
	decodedNowOccurred, decodedNowCreated, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNowOccurred), "Current occurred at should match after decode")
	assert.True(t, now.Equal(decodedNowCreated), "Current created at should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Base64 encoded timestamp without the tuple separator.
	invalidToken := "MjAyNS0wMy0xMFQwMDowMDowMFo="
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for a token missing the separator")
	assert.Contains(t, err.Error(), "split")

	// Base64 encoded "notadate|2025-03-10T14:30:45.123456789Z".
	invalidDateToken := "bm90YWRhdGV8MjAyNS0wMy0xMFQxNDozMDo0NS4xMjM0NTY3ODla"
	_, _, err = DecodeToken(invalidDateToken)
	assert.Error(t, err, "Should return an error for an unparsable timestamp")
	assert.Contains(t, err.Error(), "occurred_at parse")
}
