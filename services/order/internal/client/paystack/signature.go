package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"
)

// HeaderSignature - заголовок, в котором Paystack присылает подпись webhook
const HeaderSignature = "x-paystack-signature"

// ErrInvalidSignature - подпись отсутствует или не совпала
var ErrInvalidSignature = errors.New("invalid paystack signature")

// Signer считает и проверяет HMAC-SHA512 по сырому телу запроса
type Signer struct {
	secret []byte
}

// NewSigner создаёт Signer с секретным ключом Paystack
func NewSigner(secretKey string) *Signer {
	return &Signer{secret: []byte(secretKey)}
}

// Sign возвращает hex(HMAC-SHA512(secret, body))
func (s *Signer) Sign(body []byte) string {
	mac := hmac.New(sha512.New, s.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify сравнивает подпись за постоянное время
func (s *Signer) Verify(body []byte, signature string) error {
	signature = strings.ToLower(strings.TrimSpace(signature))
	if signature == "" {
		return ErrInvalidSignature
	}
	if !hmac.Equal([]byte(s.Sign(body)), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
