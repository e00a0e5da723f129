package feeengine

import "math"

// MinimumResult is the output contract for the creator-minimum calculator
// (spec §4.1), consumed by checkout validation and the /config/my-minimum read.
type MinimumResult struct {
	MinimumUSD    int64 // cents, rounded up to the nearest $5
	MinimumLocal  int64 // minor units in Currency
	Currency      string
	NetMarginRate float64
	FixedCents    int64 // per-country fixed cost (USD cents) before division across subscribers
}

// countryFixedCostsUSDCents is a representative per-country amortized fixed
// processing cost (minor units, USD), used to keep the minimum calculator
// self-contained without an external cost-schedule dependency.
var countryFixedCostsUSDCents = map[string]int64{
	"US": 30,
	"GB": 35,
	"NG": 75,
	"KE": 75,
	"ZA": 75,
	"GH": 75,
}

const defaultFixedCostsUSDCents = 30

// crossBorderFloorUSDCents is the hard floor applied to cross-border
// countries regardless of the computed break-even minimum.
const crossBorderFloorUSDCents = 500 // $5.00

// MinimumForCountry computes the smallest monthly amount (in USD cents) whose
// platform fee covers the country's fixed costs divided across
// subscriberCount, rounded up to the nearest $5, with a hard floor for
// cross-border countries. No percent processing costs are subtracted: the
// net margin rate is the full platform fee rate (plus the cross-border
// buffer where it applies).
func MinimumForCountry(country string, subscriberCount int, localCurrency string, usdToLocalRate float64) MinimumResult {
	fixed, ok := countryFixedCostsUSDCents[country]
	if !ok {
		fixed = defaultFixedCostsUSDCents
	}

	rate := PlatformFeeRate
	crossBorder := IsCrossBorderCountry(country)
	if crossBorder {
		rate += CrossBorderBuffer
	}

	netMarginRate := rate
	if netMarginRate <= 0 {
		netMarginRate = 0.0001 // guard against division by zero; rate is always positive in practice
	}

	denom := max(1, subscriberCount)
	amortizedFixed := float64(fixed) / float64(denom)

	// Break-even: the fee collected on the minimum amount must cover the
	// amortized fixed cost. minimum * rate >= amortizedFixed.
	breakEvenUSDCents := amortizedFixed / rate

	minimumUSDCents := roundUpToNearestFiveDollars(RoundHalfUp(breakEvenUSDCents))
	if crossBorder && minimumUSDCents < crossBorderFloorUSDCents {
		minimumUSDCents = crossBorderFloorUSDCents
	}

	minimumLocal := minimumUSDCents
	if localCurrency != "USD" && usdToLocalRate > 0 {
		minimumLocal = ToMinorUnits(ToDisplayUnits(minimumUSDCents, "USD")*usdToLocalRate, localCurrency)
	}

	return MinimumResult{
		MinimumUSD:    minimumUSDCents,
		MinimumLocal:  minimumLocal,
		Currency:      localCurrency,
		NetMarginRate: netMarginRate,
		FixedCents:    fixed,
	}
}

func roundUpToNearestFiveDollars(cents int64) int64 {
	const step = 500 // $5.00 in cents
	return int64(math.Ceil(float64(cents)/step)) * step
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
