package lock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Acquire/Release exercise a live Redis connection and are covered by the
// integration suite; this file only pins down the key-naming contract other
// packages depend on (spec §4.9).

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "subscription:sub_123", SubscriptionKey("sub_123"))
	assert.Equal(t, "charge:evt_abc", ChargeKey("evt_abc"))
	assert.Equal(t, "notification:sub_1:dunning", NotificationKey("sub_1", "dunning"))
	assert.Equal(t, "job:billing", JobKey("billing"))
}

func TestRandomTokenIsUnique(t *testing.T) {
	a, err := randomToken()
	assert.NoError(t, err)
	b, err := randomToken()
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
}
