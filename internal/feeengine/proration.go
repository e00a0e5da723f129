package feeengine

import (
	"math"
	"time"
)

// ProrationResult is the outcome of an upgrade/downgrade/pause proration
// calculation, adapted from the original system's tier-change handling. The
// distilled spec does not name tier changes explicitly, but the Checkout
// Initiator validates against a tierId and the original system prorates
// mid-cycle plan changes; this restores that behavior in the fee engine.
type ProrationResult struct {
	CreditAmount  int64 // unused credit at the old rate
	ChargeAmount  int64 // new charge for the remaining period at the new rate
	NetAmount     int64 // immediate charge due now (can be negative, a credit)
	DaysTotal     int
	DaysUsed      int
	DaysRemaining int
	OldDailyRate  float64
	NewDailyRate  float64
}

// ProrationCalculator computes proration for subscription tier changes.
type ProrationCalculator struct{}

// NewProrationCalculator returns a ready-to-use calculator; it holds no state.
func NewProrationCalculator() *ProrationCalculator {
	return &ProrationCalculator{}
}

// CalculateUpgradeProration prorates an immediate plan change: credit for
// unused time at the old rate, charge for remaining time at the new rate.
func (pc *ProrationCalculator) CalculateUpgradeProration(
	currentPeriodStart, currentPeriodEnd time.Time,
	oldAmountCents, newAmountCents int64,
	changeDate time.Time,
) ProrationResult {
	totalDays := pc.DaysBetween(currentPeriodStart, currentPeriodEnd)
	usedDays := pc.DaysBetween(currentPeriodStart, changeDate)
	if usedDays > totalDays {
		usedDays = totalDays
	}
	remainingDays := totalDays - usedDays
	if remainingDays < 0 {
		remainingDays = 0
	}

	if totalDays == 0 {
		return ProrationResult{DaysTotal: totalDays, DaysUsed: usedDays, DaysRemaining: remainingDays}
	}

	dailyRateOld := float64(oldAmountCents) / float64(totalDays)
	dailyRateNew := float64(newAmountCents) / float64(totalDays)

	unusedCredit := RoundHalfUp(dailyRateOld * float64(remainingDays))
	newCharge := RoundHalfUp(dailyRateNew * float64(remainingDays))

	return ProrationResult{
		CreditAmount:  unusedCredit,
		ChargeAmount:  newCharge,
		NetAmount:     newCharge - unusedCredit,
		DaysTotal:     totalDays,
		DaysUsed:      usedDays,
		DaysRemaining: remainingDays,
		OldDailyRate:  dailyRateOld,
		NewDailyRate:  dailyRateNew,
	}
}

// CalculatePauseCredit computes the unused-time credit when a subscription
// is paused mid-period; no new charge is generated.
func (pc *ProrationCalculator) CalculatePauseCredit(
	currentPeriodStart, currentPeriodEnd time.Time,
	amountCents int64,
	pauseDate time.Time,
) ProrationResult {
	totalDays := pc.DaysBetween(currentPeriodStart, currentPeriodEnd)
	if totalDays == 0 {
		return ProrationResult{}
	}

	var usedDays int
	if pauseDate.After(currentPeriodEnd) {
		usedDays = totalDays
	} else {
		usedDays = pc.DaysBetween(currentPeriodStart, pauseDate)
	}
	remainingDays := totalDays - usedDays
	if remainingDays < 0 {
		remainingDays = 0
	}

	dailyRate := float64(amountCents) / float64(totalDays)
	unusedCredit := RoundHalfUp(dailyRate * float64(remainingDays))

	return ProrationResult{
		CreditAmount:  unusedCredit,
		NetAmount:     -unusedCredit,
		DaysTotal:     totalDays,
		DaysUsed:      usedDays,
		DaysRemaining: remainingDays,
		OldDailyRate:  dailyRate,
	}
}

// DaysBetween counts whole days between start and end, normalized to
// midnight in each time's own location to avoid DST drift.
func (pc *ProrationCalculator) DaysBetween(start, end time.Time) int {
	startNorm := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endNorm := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	return int(math.Round(endNorm.Sub(startNorm).Hours() / 24))
}
