// Package tokens implements the HMAC-signed manage/cancel/portal tokens
// from spec §6: HMAC-SHA256 over "subscriptionId:expires" with the platform
// session secret, Base64URL-encoded as "payload:signature", 30-day TTL,
// UUID-validated after decode.
package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/creatorpay/platform/internal/errs"
)

// TTL is the validity window for manage/cancel/portal tokens.
const TTL = 30 * 24 * time.Hour

// Signer issues and verifies manage tokens for one session secret.
type Signer struct {
	secret []byte
}

func NewSigner(sessionSecret string) *Signer {
	return &Signer{secret: []byte(sessionSecret)}
}

// Issue creates a token for subscriptionID valid for TTL from now.
func (s *Signer) Issue(subscriptionID uuid.UUID, now time.Time) string {
	expires := now.Add(TTL).Unix()
	payload := fmt.Sprintf("%s:%d", subscriptionID.String(), expires)
	sig := s.sign(payload)

	encodedPayload := base64.RawURLEncoding.EncodeToString([]byte(payload))
	encodedSig := base64.RawURLEncoding.EncodeToString(sig)
	return encodedPayload + ":" + encodedSig
}

// Verify decodes and validates a token, returning the subscription id it
// grants access to.
func (s *Signer) Verify(token string, now time.Time) (uuid.UUID, error) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return uuid.Nil, errs.New(errs.InvalidRequest, "tokens: malformed token")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return uuid.Nil, errs.New(errs.InvalidRequest, "tokens: malformed payload encoding")
	}
	sigBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return uuid.Nil, errs.New(errs.InvalidRequest, "tokens: malformed signature encoding")
	}

	expectedSig := s.sign(string(payloadBytes))
	if !hmac.Equal(sigBytes, expectedSig) {
		return uuid.Nil, errs.New(errs.Unauthorized, "tokens: signature mismatch")
	}

	payloadParts := strings.SplitN(string(payloadBytes), ":", 2)
	if len(payloadParts) != 2 {
		return uuid.Nil, errs.New(errs.InvalidRequest, "tokens: malformed payload")
	}

	subID, err := uuid.Parse(payloadParts[0])
	if err != nil {
		return uuid.Nil, errs.New(errs.InvalidRequest, "tokens: payload subscription id is not a UUID")
	}

	expires, err := strconv.ParseInt(payloadParts[1], 10, 64)
	if err != nil {
		return uuid.Nil, errs.New(errs.InvalidRequest, "tokens: malformed expiry")
	}
	if now.Unix() > expires {
		return uuid.Nil, errs.New(errs.Unauthorized, "tokens: expired")
	}

	return subID, nil
}

func (s *Signer) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

// VerifyWebhookSignature performs a constant-time comparison of an
// HMAC-SHA256 signature over body against secret, per spec §4.4 step 1.
func VerifyWebhookSignature(body []byte, providedSigHex string, secret []byte) bool {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	provided, err := decodeHex(providedSigHex)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(expected, provided) == 1
}

func decodeHex(s string) ([]byte, error) {
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, err := hexDigit(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexDigit(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexDigit(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, errs.New(errs.InvalidRequest, "tokens: invalid hex signature")
	}
}
