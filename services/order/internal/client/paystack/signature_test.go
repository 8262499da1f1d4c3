package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigner_SignMatchesHMACSHA512(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte("secret"))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))

	s := NewSigner("secret")
	assert.Equal(t, want, s.Sign(body))
	assert.Len(t, s.Sign(body), 128)
}

func TestSigner_Verify(t *testing.T) {
	s := NewSigner("secret")
	body := []byte(`{"event":"charge.failed"}`)
	sig := s.Sign(body)

	assert.NoError(t, s.Verify(body, sig))
	assert.NoError(t, s.Verify(body, strings.ToUpper(sig)))
	assert.ErrorIs(t, s.Verify(body, ""), ErrInvalidSignature)
	assert.ErrorIs(t, s.Verify(body, sig[:64]), ErrInvalidSignature)
	assert.ErrorIs(t, s.Verify([]byte(`{"event":"charge.success"}`), sig), ErrInvalidSignature)
}
