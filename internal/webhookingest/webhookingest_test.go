package webhookingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// processProvG's dispute handling needs live Postgres/Redis to exercise end
// to end (same split lock_test.go documents: acquire/release and anything
// downstream of them belongs to the integration suite). This pins down the
// one thing that can be tested in isolation: the wire decode that feeds
// events.Refund.RefundAmountCents.
func TestStripeDisputeDecodesAmount(t *testing.T) {
	raw := []byte(`{"charge":"ch_123","status":"lost","amount":4500,"created":1700000000}`)

	var dispute stripeDispute
	require.NoError(t, json.Unmarshal(raw, &dispute))

	require.Equal(t, "ch_123", dispute.Charge)
	require.Equal(t, "lost", dispute.Status)
	require.Equal(t, int64(4500), dispute.Amount)
}
