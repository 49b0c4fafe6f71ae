package beastframe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modInt is the always-positive integer modulo used by the reference
// global CPR decode.
func modInt(a, b int) int {
	res := a % b
	if res < 0 {
		res += b
	}
	return res
}

// decodeCPRGlobal recovers a position from an even/odd code pair using
// the standard global (two-frame) CPR decode, resolving longitude from
// the even frame. Returns ok=false when the pair straddles a latitude
// zone boundary.
func decodeCPRGlobal(evenLat, evenLon, oddLat, oddLon uint32) (lat, lon float64, ok bool) {
	const nb = float64(cprMax)
	airDlat0 := 360.0 / 60.0
	airDlat1 := 360.0 / 59.0

	lat0 := float64(evenLat)
	lat1 := float64(oddLat)
	lon0 := float64(evenLon)
	lon1 := float64(oddLon)

	j := int(math.Floor((59*lat0-60*lat1)/nb + 0.5))

	rlat0 := airDlat0 * (float64(modInt(j, 60)) + lat0/nb)
	rlat1 := airDlat1 * (float64(modInt(j, 59)) + lat1/nb)
	if rlat0 >= 270 {
		rlat0 -= 360
	}
	if rlat1 >= 270 {
		rlat1 -= 360
	}

	if rlat0 < -90 || rlat0 > 90 || rlat1 < -90 || rlat1 > 90 {
		return 0, 0, false
	}
	if cprNL(rlat0) != cprNL(rlat1) {
		return 0, 0, false
	}

	nl := cprNL(rlat0)
	ni := int(cprN(rlat0, false))
	m := int(math.Floor((lon0*float64(nl-1)-lon1*float64(nl))/nb + 0.5))
	rlon := (360.0 / float64(ni)) * (float64(modInt(m, ni)) + lon0/nb)
	rlon -= math.Floor((rlon+180)/360) * 360

	return rlat0, rlon, true
}

func TestCprEncodeKnownValues(t *testing.T) {
	tests := []struct {
		name        string
		lat, lon    float64
		odd         bool
		expectedLat uint32
		expectedLon uint32
	}{
		{
			name: "Origin even",
			lat:  0, lon: 0, odd: false,
			expectedLat: 0, expectedLon: 0,
		},
		{
			name: "Origin odd",
			lat:  0, lon: 0, odd: true,
			expectedLat: 0, expectedLon: 0,
		},
		{
			name: "Exact even zone multiple",
			lat:  24, lon: 0, odd: false,
			expectedLat: 0, expectedLon: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yz, xz := cprEncode(tt.lat, tt.lon, tt.odd)
			assert.Equal(t, tt.expectedLat, yz)
			assert.Equal(t, tt.expectedLon, xz)
		})
	}
}

func TestCprEncodeCodesAre17Bit(t *testing.T) {
	for lat := -89.0; lat <= 89.0; lat += 7.3 {
		for lon := -179.0; lon <= 179.0; lon += 13.7 {
			for _, odd := range []bool{false, true} {
				yz, xz := cprEncode(lat, lon, odd)
				assert.LessOrEqual(t, yz, uint32(cprCodeMask))
				assert.LessOrEqual(t, xz, uint32(cprCodeMask))
			}
		}
	}
}

// Encoding a position as an even/odd pair and running the standard
// global decode must recover the input within quantization error. The
// latitude step is fixed (6°/2^17), but the longitude step widens with
// the zone width, up to tens of meters of a degree near the poles, so
// the longitude bound scales with the zone count at that latitude.
func TestCprRoundTrip(t *testing.T) {
	const nb = float64(cprMax)
	for lat := -86.5; lat <= 86.5; lat += 3.7 {
		lonStep := 360.0 / (float64(cprN(lat, false)) * nb)
		for lon := -179.0; lon <= 179.0; lon += 11.3 {
			evenLat, evenLon := cprEncode(lat, lon, false)
			oddLat, oddLon := cprEncode(lat, lon, true)

			gotLat, gotLon, ok := decodeCPRGlobal(evenLat, evenLon, oddLat, oddLon)
			require.True(t, ok, "global decode failed for lat=%.4f lon=%.4f", lat, lon)
			assert.InDelta(t, lat, gotLat, 1e-4, "latitude lat=%.4f lon=%.4f", lat, lon)
			assert.InDelta(t, lon, gotLon, lonStep/2+1e-9, "longitude lat=%.4f lon=%.4f", lat, lon)
		}
	}
}

// The fixed tolerance above must stay tight where the zone width allows
// it: at mid latitudes half a longitude step is still below 1e-4°.
func TestCprRoundTripMidLatitudePrecision(t *testing.T) {
	for _, lat := range []float64{-47.3, 0.0, 35.1, 52.9} {
		for lon := -179.0; lon <= 179.0; lon += 23.9 {
			evenLat, evenLon := cprEncode(lat, lon, false)
			oddLat, oddLon := cprEncode(lat, lon, true)

			gotLat, gotLon, ok := decodeCPRGlobal(evenLat, evenLon, oddLat, oddLon)
			require.True(t, ok, "global decode failed for lat=%.4f lon=%.4f", lat, lon)
			assert.InDelta(t, lat, gotLat, 1e-4)
			assert.InDelta(t, lon, gotLon, 1e-4)
		}
	}
}

func TestCprMod(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		modulus  float64
		expected float64
	}{
		{name: "Positive in range", value: 4.2, modulus: 6, expected: 4.2},
		{name: "Positive wraps", value: 10.5, modulus: 6, expected: 4.5},
		{name: "Negative shifts up", value: -1.5, modulus: 6, expected: 4.5},
		{name: "Exact multiple", value: 12, modulus: 6, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cprMod(tt.value, tt.modulus)
			assert.InDelta(t, tt.expected, got, 1e-12)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, tt.modulus)
		})
	}
}
