// Package crc provides the table-less checksums firmware uses for frame
// integrity: a CCITT-style CRC16 for short console frames and the reflected
// CRC32 the hardware CRC engine computes, so host and target agree without
// the peripheral.
package crc

// CRC16 computes the frame checksum over data. The algorithm is the
// bit-inverted CCITT variant used on the serial console.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}

// crc32Poly is the reflected IEEE 802.3 polynomial.
const crc32Poly = 0xEDB88320

// CRC32 computes the reflected IEEE CRC32 (init and final XOR 0xFFFFFFFF),
// matching the hardware CRC engine's default configuration.
func CRC32(data []byte) uint32 {
	return CRC32Update(0xFFFFFFFF, data) ^ 0xFFFFFFFF
}

// CRC32Update advances a running (pre-final-XOR) CRC32 state over data.
// Seed a fresh computation with 0xFFFFFFFF and XOR the result with
// 0xFFFFFFFF when the stream ends.
func CRC32Update(state uint32, data []byte) uint32 {
	for _, b := range data {
		state ^= uint32(b)
		for i := 0; i < 8; i++ {
			if state&1 != 0 {
				state = state>>1 ^ crc32Poly
			} else {
				state >>= 1
			}
		}
	}
	return state
}
