package propagation

// SpeedOfLightKmS is the speed of light in km/s, matching the precision the
// rest of the model carries.
const SpeedOfLightKmS = 299792.0

// Direction distinguishes the two sides of a radio link.
type Direction int

const (
	Downlink Direction = iota
	Uplink
)

func (d Direction) String() string {
	if d == Uplink {
		return "uplink"
	}
	return "downlink"
}

// DopplerShift returns the apparent frequency offset for a signal at freqMHz
// from a satellite moving with the given range rate. An approaching
// satellite (negative range rate) shifts the frequency up.
func DopplerShift(freqMHz, rangeRateKmS float64) float64 {
	return -freqMHz * rangeRateKmS / SpeedOfLightKmS
}

// Doppler returns the frequency to tune for the given link direction: for a
// downlink, the frequency the ground station hears; for an uplink, the
// frequency to transmit so the satellite hears freqMHz.
func Doppler(freqMHz, rangeRateKmS float64, dir Direction) float64 {
	shift := DopplerShift(freqMHz, rangeRateKmS)
	if dir == Uplink {
		return freqMHz - shift
	}
	return freqMHz + shift
}
