package feeengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/creatorpay/platform/internal/domain"
)

func TestCalculateServiceFee_CrossBorderSplit(t *testing.T) {
	// spec §8 scenario 2: base 10000 cents, cross-border, split_v1.
	result := CalculateServiceFee(10000, "USD", FeeOptions{
		FeeModel:    domain.FeeModelSplitV1,
		CrossBorder: true,
	})

	assert.Equal(t, int64(525), result.SubscriberFeeCents)
	assert.Equal(t, int64(525), result.CreatorFeeCents)
	assert.Equal(t, int64(1050), result.FeeCents)
	assert.Equal(t, int64(10525), result.GrossCents)
	assert.Equal(t, int64(9475), result.NetCents)
	assert.Equal(t, domain.FeeModelSplitV1, result.FeeModel)
}

func TestCalculateServiceFee_DomesticSplit(t *testing.T) {
	result := CalculateServiceFee(10000, "USD", FeeOptions{FeeModel: domain.FeeModelSplitV1})

	assert.Equal(t, int64(450), result.SubscriberFeeCents)
	assert.Equal(t, int64(450), result.CreatorFeeCents)
	assert.Equal(t, int64(900), result.FeeCents)
	assert.Equal(t, int64(10450), result.GrossCents)
	assert.Equal(t, int64(9550), result.NetCents)
}

func TestCalculateServiceFee_LegacyAbsorb(t *testing.T) {
	result := CalculateServiceFee(10000, "USD", FeeOptions{
		FeeModel: domain.FeeModelLegacy,
		FeeMode:  domain.FeeModeAbsorb,
	})

	assert.Equal(t, int64(900), result.FeeCents)
	assert.Equal(t, int64(10000), result.GrossCents)
	assert.Equal(t, int64(9100), result.NetCents)
}

func TestCalculateServiceFee_LegacyPassToSubscriber(t *testing.T) {
	result := CalculateServiceFee(10000, "USD", FeeOptions{
		FeeModel: domain.FeeModelLegacy,
		FeeMode:  domain.FeeModePassToSubscriber,
	})

	assert.Equal(t, int64(900), result.FeeCents)
	assert.Equal(t, int64(10900), result.GrossCents)
	assert.Equal(t, int64(10000), result.NetCents)
}

// TestCalculateServiceFee_Property walks a range of amounts and currencies
// verifying the invariants from spec §8.1 and §8.3 hold everywhere.
func TestCalculateServiceFee_Property(t *testing.T) {
	amounts := []int64{100, 999, 1000, 123456, 10_000_000}
	currencies := []string{"USD", "EUR", "JPY", "KRW", "NGN"}

	for _, currency := range currencies {
		for _, amount := range amounts {
			for _, crossBorder := range []bool{false, true} {
				result := CalculateServiceFee(amount, currency, FeeOptions{
					FeeModel:    domain.FeeModelSplitV1,
					CrossBorder: crossBorder,
				})

				assert.Equal(t, result.FeeCents, result.SubscriberFeeCents+result.CreatorFeeCents,
					"creatorFee+subscriberFee must equal feeCents for %d %s crossBorder=%v", amount, currency, crossBorder)
				assert.Equal(t, result.GrossCents, result.BaseCents+result.SubscriberFeeCents,
					"base+subscriberFee must equal grossCents")
				assert.Equal(t, result.NetCents, result.BaseCents-result.CreatorFeeCents,
					"base-creatorFee must equal netCents")
			}
		}
	}
}

func TestCalculateRefundFee_Partial(t *testing.T) {
	// spec §8 scenario 3: original {gross:10450, fee:900, net:9550}; partial
	// refund of 5225 (half).
	breakdown := CalculateRefundFee(5225, 10450, 900, 9550, nil, nil)

	assert.Equal(t, int64(-5225), breakdown.AmountCents)
	assert.Equal(t, int64(-450), breakdown.FeeCents)
	assert.Equal(t, int64(-4775), breakdown.NetCents)
}

func TestCalculateRefundFee_SplitModel(t *testing.T) {
	creatorFee := int64(450)
	subscriberFee := int64(450)

	breakdown := CalculateRefundFee(5225, 10450, 900, 9550, &creatorFee, &subscriberFee)

	assert.NotNil(t, breakdown.CreatorFeeCents)
	assert.NotNil(t, breakdown.SubscriberFeeCents)
	assert.Equal(t, breakdown.FeeCents, *breakdown.CreatorFeeCents+*breakdown.SubscriberFeeCents)
}

func TestIsZeroDecimalCurrency(t *testing.T) {
	assert.True(t, IsZeroDecimalCurrency("JPY"))
	assert.True(t, IsZeroDecimalCurrency("krw"))
	assert.False(t, IsZeroDecimalCurrency("USD"))
}

func TestRoundTripFX(t *testing.T) {
	cases := []struct {
		cents int64
		rate  float64
	}{
		{1000, 1.5}, {100, 0.33}, {999999, 7.89}, {1, 1000.0},
	}

	for _, tc := range cases {
		local := ToMinorUnits(ToDisplayUnits(tc.cents, "USD")*tc.rate, "NGN")
		back := RoundHalfUp(ToDisplayUnits(local, "NGN") / tc.rate * 100)
		diff := back - tc.cents
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, int64(1), "round trip for %d at rate %f should be off by at most 1", tc.cents, tc.rate)
	}
}

func TestMinimumForCountry_CrossBorderFloor(t *testing.T) {
	result := MinimumForCountry("NG", 10, "USD", 1)
	assert.GreaterOrEqual(t, result.MinimumUSD, int64(500))
	assert.Equal(t, int64(0), result.MinimumUSD%500, "minimum must round to nearest $5")
}

func TestMinimumForCountry_Domestic(t *testing.T) {
	result := MinimumForCountry("US", 100, "USD", 1)
	assert.Equal(t, int64(0), result.MinimumUSD%500)
	assert.Greater(t, result.MinimumUSD, int64(0))
}
