package feeengine

import "strings"

// zeroDecimalCurrencies is the closed set from the Glossary: currencies whose
// smallest unit equals their main unit, so display<->minor-unit conversion
// skips the x100 step.
var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "JPY": true,
	"KMF": true, "KRW": true, "MGA": true, "PYG": true, "RWF": true,
	"UGX": true, "VND": true, "VUV": true, "XAF": true, "XOF": true,
	"XPF": true,
}

// crossBorderCountries is the Glossary's cross-border-country set: countries
// where PROV-R must route funds through an extra FX/correspondent step.
var crossBorderCountries = map[string]bool{
	"NG": true, // Nigeria
	"KE": true, // Kenya
	"ZA": true, // South Africa
	"GH": true, // Ghana
}

// IsZeroDecimalCurrency reports whether code has no minor-unit subdivision.
func IsZeroDecimalCurrency(code string) bool {
	return zeroDecimalCurrencies[strings.ToUpper(code)]
}

// DecimalPlaces returns the number of minor-unit decimal places for code (0 or 2).
func DecimalPlaces(code string) int {
	if IsZeroDecimalCurrency(code) {
		return 0
	}
	return 2
}

// IsCrossBorderCountry reports whether country is in the cross-border set.
func IsCrossBorderCountry(country string) bool {
	return crossBorderCountries[strings.ToUpper(country)]
}

// ToDisplayUnits converts minor units to display units (e.g. cents to dollars),
// honoring zero-decimal currencies which have no subdivision to convert.
func ToDisplayUnits(minorUnits int64, currency string) float64 {
	if IsZeroDecimalCurrency(currency) {
		return float64(minorUnits)
	}
	return float64(minorUnits) / 100.0
}

// ToMinorUnits converts display units to minor units, honoring zero-decimal currencies.
func ToMinorUnits(displayUnits float64, currency string) int64 {
	if IsZeroDecimalCurrency(currency) {
		return RoundHalfUp(displayUnits)
	}
	return RoundHalfUp(displayUnits * 100.0)
}
