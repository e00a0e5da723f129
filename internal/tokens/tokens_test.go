package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	signer := NewSigner("test-session-secret")
	subID := uuid.New()
	now := time.Now()

	token := signer.Issue(subID, now)
	got, err := signer.Verify(token, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, subID, got)
}

func TestVerify_Expired(t *testing.T) {
	signer := NewSigner("test-session-secret")
	subID := uuid.New()
	now := time.Now()

	token := signer.Issue(subID, now)
	_, err := signer.Verify(token, now.Add(31*24*time.Hour))
	assert.Error(t, err)
}

func TestVerify_TamperedSignature(t *testing.T) {
	signer := NewSigner("test-session-secret")
	now := time.Now()
	token := signer.Issue(uuid.New(), now)

	tampered := token[:len(token)-4] + "abcd"
	_, err := signer.Verify(tampered, now)
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	signerA := NewSigner("secret-a")
	signerB := NewSigner("secret-b")
	now := time.Now()

	token := signerA.Issue(uuid.New(), now)
	_, err := signerB.Verify(token, now)
	assert.Error(t, err)
}
