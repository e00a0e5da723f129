// Package feeengine implements the platform's fee arithmetic: pure,
// deterministic, and the most heavily unit-tested package in the core
// (spec §4.1, §8). Every amount here is an integer minor unit; money is
// never carried as a float across a function boundary — floats only appear
// as intermediate rate multipliers immediately before RoundHalfUp.
package feeengine

import "github.com/creatorpay/platform/internal/domain"

// System fee rate constants (spec §4.1).
const (
	PlatformFeeRate    = 0.09  // domestic total, legacy model
	CrossBorderBuffer  = 0.015 // added to the total for cross-border corridors
	SplitRateDomestic  = 0.045 // per side, domestic, split_v1
)

// SplitRateCrossBorder is the per-side split rate for cross-border corridors:
// SplitRateDomestic + CrossBorderBuffer/2.
func SplitRateCrossBorder() float64 {
	return SplitRateDomestic + CrossBorderBuffer/2
}

// FeeOptions parameterizes a single fee calculation.
type FeeOptions struct {
	Purpose      domain.CreatorPurpose
	FeeModel     domain.FeeModel
	FeeMode      domain.FeeMode // only meaningful when FeeModel == legacy
	CrossBorder  bool
}

// FeeBreakdown is the full result of a fee calculation, matching spec §4.1's
// output contract and the invariants tested in §8.
type FeeBreakdown struct {
	BaseCents          int64
	GrossCents         int64
	FeeCents           int64
	NetCents           int64
	CreatorFeeCents    int64 // 0 unless FeeModel == split_v1
	SubscriberFeeCents int64 // 0 unless FeeModel == split_v1
	FeeModel           domain.FeeModel
	FeeMode            domain.FeeMode
}

// CalculateServiceFee computes the fee breakdown for baseCents in currency
// under the given options. Satisfies (spec §8.3):
//
//	subscriberFeeCents + creatorFeeCents == feeCents        (split model)
//	baseCents + subscriberFeeCents       == grossCents
//	baseCents - creatorFeeCents          == netCents
func CalculateServiceFee(baseCents int64, currency string, opts FeeOptions) FeeBreakdown {
	if opts.FeeModel == domain.FeeModelLegacy {
		return calculateLegacyFee(baseCents, opts)
	}
	return calculateSplitFee(baseCents, opts)
}

func calculateSplitFee(baseCents int64, opts FeeOptions) FeeBreakdown {
	rate := SplitRateDomestic
	if opts.CrossBorder {
		rate = SplitRateCrossBorder()
	}

	subscriberFee := RoundHalfUp(float64(baseCents) * rate)
	creatorFee := RoundHalfUp(float64(baseCents) * rate)

	return FeeBreakdown{
		BaseCents:          baseCents,
		GrossCents:         baseCents + subscriberFee,
		FeeCents:           subscriberFee + creatorFee,
		NetCents:           baseCents - creatorFee,
		CreatorFeeCents:    creatorFee,
		SubscriberFeeCents: subscriberFee,
		FeeModel:           domain.FeeModelSplitV1,
		FeeMode:            domain.FeeModeSplit,
	}
}

func calculateLegacyFee(baseCents int64, opts FeeOptions) FeeBreakdown {
	rate := PlatformFeeRate
	if opts.CrossBorder {
		rate += CrossBorderBuffer
	}

	totalFee := RoundHalfUp(float64(baseCents) * rate)

	switch opts.FeeMode {
	case domain.FeeModePassToSubscriber:
		// Subscriber pays the fee on top; creator keeps the full base.
		return FeeBreakdown{
			BaseCents:  baseCents,
			GrossCents: baseCents + totalFee,
			FeeCents:   totalFee,
			NetCents:   baseCents,
			FeeModel:   domain.FeeModelLegacy,
			FeeMode:    domain.FeeModePassToSubscriber,
		}
	default: // absorb
		return FeeBreakdown{
			BaseCents:  baseCents,
			GrossCents: baseCents,
			FeeCents:   totalFee,
			NetCents:   baseCents - totalFee,
			FeeModel:   domain.FeeModelLegacy,
			FeeMode:    domain.FeeModeAbsorb,
		}
	}
}

// RefundBreakdown is the proportional-refund result from spec §4.5.2.
type RefundBreakdown struct {
	AmountCents        int64 // negative
	FeeCents           int64 // negative (or zero)
	NetCents           int64 // negative (or zero)
	CreatorFeeCents    *int64
	SubscriberFeeCents *int64
}

// CalculateRefundFee computes a proportional refund from the original
// payment's gross/fee/net using the ratio method in spec §4.5.2:
//
//	feeRatio = originalFeeCents / originalGrossCents
//	netRatio = originalNetCents / originalGrossCents
//
// refundAmountCents must be positive (the magnitude being refunded); the
// returned breakdown carries negative signs per the invariant that refund
// signs match amountCents.
func CalculateRefundFee(refundAmountCents, originalGrossCents, originalFeeCents, originalNetCents int64, originalCreatorFee, originalSubscriberFee *int64) RefundBreakdown {
	if originalGrossCents == 0 {
		return RefundBreakdown{}
	}

	feeRatio := float64(originalFeeCents) / float64(originalGrossCents)
	netRatio := float64(originalNetCents) / float64(originalGrossCents)

	refundFee := RoundHalfUp(float64(refundAmountCents) * feeRatio)
	refundNet := RoundHalfUp(float64(refundAmountCents) * netRatio)

	out := RefundBreakdown{
		AmountCents: -refundAmountCents,
		FeeCents:    -refundFee,
		NetCents:    -refundNet,
	}

	if originalCreatorFee != nil && originalSubscriberFee != nil {
		creatorRatio := float64(*originalCreatorFee) / float64(originalGrossCents)
		subscriberRatio := float64(*originalSubscriberFee) / float64(originalGrossCents)
		creatorFee := -RoundHalfUp(float64(refundAmountCents) * creatorRatio)
		subscriberFee := -RoundHalfUp(float64(refundAmountCents) * subscriberRatio)
		out.CreatorFeeCents = &creatorFee
		out.SubscriberFeeCents = &subscriberFee
	}

	return out
}
