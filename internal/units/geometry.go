package units

import "math"

// AntennaHeightOffset is the vertical separation in metres between the
// transmitter and receiver antennas in the measurement campaign.
const AntennaHeightOffset = 2.87

// SlantDistance converts a horizontal distance into the straight-line
// distance between antennas separated vertically by AntennaHeightOffset.
func SlantDistance(horizontal float64) float64 {
	return SlantDistanceWithHeight(horizontal, AntennaHeightOffset)
}

// SlantDistanceWithHeight is SlantDistance with an explicit vertical offset.
func SlantDistanceWithHeight(horizontal, height float64) float64 {
	return math.Sqrt(height*height + horizontal*horizontal)
}

// SlantDistances applies SlantDistanceWithHeight elementwise and returns a new slice.
func SlantDistances(horizontal []float64, height float64) []float64 {
	out := make([]float64, len(horizontal))
	for i, d := range horizontal {
		out[i] = SlantDistanceWithHeight(d, height)
	}
	return out
}

// FreeSpacePathLoss returns the free-space loss in dB at distance d metres
// for the given wavelength: 20·log10(4π·d/λ).
func FreeSpacePathLoss(d, wavelength float64) float64 {
	return 20 * math.Log10(4*math.Pi*d/wavelength)
}
