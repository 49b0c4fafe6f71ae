// Package modes supplies the Mode S 24-bit message parity used to seal
// synthesized downlink frames.
package modes

// Mode S CRC-24 generator polynomial.
const GeneratorPoly = 0xfff409

// Pre-computed byte-wise remainder table.
var crcTable [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		c := uint32(i) << 16
		for j := 0; j < 8; j++ {
			if c&0x800000 != 0 {
				c = (c << 1) ^ GeneratorPoly
			} else {
				c = c << 1
			}
		}
		crcTable[i] = c & 0x00ffffff
	}
}

// Parity returns the 24-bit Mode S checksum over data. For a sealed
// DF17/DF18 frame the parity over all 14 bytes is zero; encoders call it
// over the leading 11 bytes and store the result in the trailer.
func Parity(data []byte) uint32 {
	var rem uint32
	for i := 0; i < len(data); i++ {
		rem = (rem << 8) ^ crcTable[uint32(data[i])^((rem&0xff0000)>>16)]
		rem = rem & 0xffffff
	}
	return rem
}
