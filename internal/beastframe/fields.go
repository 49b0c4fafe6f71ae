package beastframe

// Scalar field encoders. Each takes an optional physical value (nil
// means "no information") and returns a saturated fixed-width code;
// absent input encodes to the defined null code 0.

// Altitude field limits (11-bit index, 25 ft resolution, -1000 ft base).
const (
	altIndexMax = 0x7FF
	altQBit     = 0x010 // 25 ft resolution marker between the nibble groups
)

// encodeAltitude produces the 12-bit AC field for an altitude in feet:
// the 11-bit 25-foot index with the Q bit interleaved between its low
// nibble and the rest, clamped at the field limits.
func encodeAltitude(feet *float64) uint32 {
	if feet == nil {
		return 0
	}

	index := int64((*feet + 1012.5) / 25)
	if index < 0 {
		index = 0
	} else if index > altIndexMax {
		index = altIndexMax
	}

	return uint32(((index & 0x7F0) << 1) | altQBit | (index & 0x00F))
}

// encodeVelocity produces a sign+magnitude velocity field: 10-bit
// magnitude clamped at 1023 with sign bit 0x400 for negative input.
// The supersonic flag is decided pairwise by the caller; when set, the
// component is pre-scaled by 1/4 before quantization.
func encodeVelocity(knots *float64, supersonic bool) uint32 {
	if knots == nil {
		return 0
	}

	v := *knots
	var sign uint32
	if v < 0 {
		sign = 0x400
		v = -v
	}

	if supersonic {
		v /= 4
	}

	value := int64(v + 1.5)
	if value > 1023 {
		value = 1023
	}
	return uint32(value) | sign
}

// encodeVerticalRate produces the 9-bit vertical rate field (64 fpm
// resolution) with sign bit 0x200 for descending rates.
func encodeVerticalRate(fpm *float64) uint32 {
	if fpm == nil {
		return 0
	}

	v := *fpm
	var sign uint32
	if v < 0 {
		sign = 0x200
		v = -v
	}

	value := int64(v/64 + 1.5)
	if value > 511 {
		value = 511
	}
	return uint32(value) | sign
}
