// Package beastframe synthesizes Mode S Extended Squitter downlink
// frames from externally computed target states, for downstream tools
// that expect raw Mode S byte streams. All operations are pure and safe
// for concurrent use.
package beastframe

import (
	"fmt"

	"github.com/fabian-stettler/mlat-server-wiedehopf-wipro/internal/modes"
)

// Frame is a sealed 14-byte Extended Squitter downlink frame. Bytes
// 11-13 always hold the Mode S parity over bytes 0-10.
type Frame [14]byte

// Variant selects the DF18 sub-format to emit.
type Variant int

const (
	// Df18 is the standard squitter with ICAO addressing (IMF = 0).
	Df18 Variant = iota
	// Df18Anonymous is the anonymous / non-ICAO address squitter.
	Df18Anonymous
	// Df18Track is the standard squitter with track/file number
	// addressing (IMF = 1).
	Df18Track
)

// Message type codes carried in byte 4.
const (
	typeAltitudeOnly = 0
	typePosition     = 17
	typeVelocity     = 19
)

func (v Variant) String() string {
	switch v {
	case Df18:
		return "DF18"
	case Df18Anonymous:
		return "DF18ANON"
	case Df18Track:
		return "DF18TRACK"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// framePrefix resolves a variant to its format/capability byte and IMF
// bit. An unknown variant is a programmer error and fails before any
// frame bytes are written.
func framePrefix(v Variant) (prefix, imf byte, err error) {
	switch v {
	case Df18:
		return (18 << 3) | 2, 0, nil
	case Df18Anonymous:
		return (18 << 3) | 5, 0, nil
	case Df18Track:
		return (18 << 3) | 2, 1, nil
	default:
		return 0, 0, fmt.Errorf("beastframe: unsupported frame variant %d", int(v))
	}
}

// seal computes the Mode S parity over bytes 0-10 and writes it
// big-endian into the trailer.
func seal(frame *Frame) {
	parity := modes.Parity(frame[:11])
	frame[11] = byte(parity >> 16)
	frame[12] = byte(parity >> 8)
	frame[13] = byte(parity)
}

// makePositionFrame packs one position-shaped frame: address, type/IMF
// byte, 12-bit altitude field, CPR parity flag and the two 17-bit CPR
// codes, then seals it.
func makePositionFrame(metype byte, addr uint32, elat, elon, ealt uint32, odd bool, v Variant) (Frame, error) {
	prefix, imf, err := framePrefix(v)
	if err != nil {
		return Frame{}, err
	}

	var frame Frame
	frame[0] = prefix
	frame[1] = byte(addr >> 16)
	frame[2] = byte(addr >> 8)
	frame[3] = byte(addr)
	frame[4] = (metype << 3) | imf
	frame[5] = byte(ealt >> 4)
	frame[6] = byte(ealt&0x0F) << 4
	if odd {
		frame[6] |= 0x04
	}
	frame[6] |= byte(elat>>15) & 0x03
	frame[7] = byte(elat >> 7)
	frame[8] = byte(elat&0x7F) << 1
	frame[8] |= byte(elon>>16) & 0x01
	frame[9] = byte(elon >> 8)
	frame[10] = byte(elon)

	seal(&frame)
	return frame, nil
}

// MakePositionFramePair encodes a position as an even-parity and an
// odd-parity airborne position frame. A compliant decoder needs both to
// resolve an unambiguous global position, so callers must treat the two
// frames as one atomic position report. altitudeFt may be nil.
func MakePositionFramePair(addr uint32, lat, lon float64, altitudeFt *float64, v Variant) (even, odd Frame, err error) {
	ealt := encodeAltitude(altitudeFt)
	evenLat, evenLon := cprEncode(lat, lon, false)
	oddLat, oddLon := cprEncode(lat, lon, true)

	even, err = makePositionFrame(typePosition, addr, evenLat, evenLon, ealt, false, v)
	if err != nil {
		return Frame{}, Frame{}, err
	}
	odd, err = makePositionFrame(typePosition, addr, oddLat, oddLon, ealt, true, v)
	if err != nil {
		return Frame{}, Frame{}, err
	}
	return even, odd, nil
}

// MakeAltitudeOnlyFrame encodes a frame carrying only an altitude, with
// type code 0 and both CPR fields zero. altitudeFt may be nil.
func MakeAltitudeOnlyFrame(addr uint32, altitudeFt *float64, v Variant) (Frame, error) {
	return makePositionFrame(typeAltitudeOnly, addr, 0, 0, encodeAltitude(altitudeFt), false, v)
}

// MakeVelocityFrame encodes an airborne velocity frame from optional
// north-south and east-west ground speed components (knots, north/east
// positive) and an optional vertical rate (ft/min, climb positive). If
// either component's magnitude exceeds 1000 kt the subtype switches to
// supersonic and both components are scaled by 1/4.
func MakeVelocityFrame(addr uint32, nsKt, ewKt, vrateFpm *float64, v Variant) (Frame, error) {
	prefix, imf, err := framePrefix(v)
	if err != nil {
		return Frame{}, err
	}

	supersonic := false
	if nsKt != nil && (*nsKt > 1000 || *nsKt < -1000) {
		supersonic = true
	}
	if ewKt != nil && (*ewKt > 1000 || *ewKt < -1000) {
		supersonic = true
	}

	eNS := encodeVelocity(nsKt, supersonic)
	eEW := encodeVelocity(ewKt, supersonic)
	eVR := encodeVerticalRate(vrateFpm)

	subtype := byte(1)
	if supersonic {
		subtype = 2
	}

	var frame Frame
	frame[0] = prefix
	frame[1] = byte(addr >> 16)
	frame[2] = byte(addr >> 8)
	frame[3] = byte(addr)
	frame[4] = (typeVelocity << 3) | subtype
	frame[5] = (imf << 7) | byte(eEW>>8)&0x07
	frame[6] = byte(eEW)
	frame[7] = byte(eNS >> 3)
	frame[8] = byte(eNS&0x07)<<5 | 0x10 | byte(eVR>>6)&0x0F
	frame[9] = byte(eVR&0x3F) << 2
	frame[10] = 0

	seal(&frame)
	return frame, nil
}
