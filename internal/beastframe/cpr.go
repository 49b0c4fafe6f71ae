package beastframe

import "math"

// CPR encoding constants
const (
	cprBits     = 17
	cprMax      = 1 << cprBits // 131072
	cprCodeMask = cprMax - 1   // 0x1FFFF
)

// cprMod is the always-positive floating point modulo used by CPR.
// math.Mod keeps the sign of the dividend, so negative remainders are
// shifted up by the modulus.
func cprMod(value, modulus float64) float64 {
	r := math.Mod(value, modulus)
	if r < 0 {
		r += modulus
	}
	return r
}

// cprEncode quantizes a geodetic coordinate onto the even (60-zone) or
// odd (59-zone) CPR lattice and returns the 17-bit latitude and
// longitude codes. The longitude zone count depends on latitude, so the
// zone-local latitude is first recovered from the quantized latitude
// code. Out-of-domain latitudes are not rejected; the zone-count floor
// degrades them to the polar cap.
func cprEncode(lat, lon float64, odd bool) (yz, xz uint32) {
	const nb = float64(cprMax)

	dlat := 360.0 / 60.0
	if odd {
		dlat = 360.0 / 59.0
	}
	ylin := int64(math.Floor(nb*(cprMod(lat, dlat)/dlat) + 0.5))

	rlat := dlat * (float64(ylin)/nb + math.Floor(lat/dlat))
	dlon := 360.0 / float64(cprN(rlat, odd))
	xlin := int64(math.Floor(nb*(cprMod(lon, dlon)/dlon) + 0.5))

	return uint32(ylin) & cprCodeMask, uint32(xlin) & cprCodeMask
}
