// Package units provides shared constants and conversions for radio
// frequency units and link geometry.
package units

import "strings"

// Frequency unit constants
const (
	Hz  = "hz"
	KHz = "khz"
	MHz = "mhz"
	GHz = "ghz"
)

// ValidFrequencyUnits contains all valid frequency unit values
var ValidFrequencyUnits = []string{Hz, KHz, MHz, GHz}

// SpeedOfLight is the propagation speed used by the free-space model, in m/s.
const SpeedOfLight = 3e8

// IsValidFrequencyUnit checks if the given unit is in the list of valid units.
// Matching is case-insensitive so "GHz" and "ghz" are both accepted.
func IsValidFrequencyUnit(unit string) bool {
	unit = strings.ToLower(unit)
	for _, validUnit := range ValidFrequencyUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidFrequencyUnitsString returns a comma-separated string of valid units for error messages
func GetValidFrequencyUnitsString() string {
	return strings.Join(ValidFrequencyUnits, ", ")
}

// ConvertFrequencyToHz converts a frequency expressed in the given units to Hz.
// Unknown units are treated as Hz.
func ConvertFrequencyToHz(value float64, fromUnits string) float64 {
	switch strings.ToLower(fromUnits) {
	case GHz:
		return value * 1e9
	case MHz:
		return value * 1e6
	case KHz:
		return value * 1e3
	default:
		return value
	}
}

// Wavelength returns the free-space wavelength in metres for a carrier
// frequency given in GHz.
func Wavelength(freqGHz float64) float64 {
	return SpeedOfLight / ConvertFrequencyToHz(freqGHz, GHz)
}
