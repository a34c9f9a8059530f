package bit

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// IsSet will check if the bit at the specified index is set to 1 or not.
func IsSet(index, value uint8) bool {
	return ((value >> index) & 1) == 1
}

// IsSet16 checks a bit in a 16 bit value, used for hardware registers
// that are read as halfwords.
func IsSet16(index uint8, value uint16) bool {
	return ((value >> index) & 1) == 1
}

// Set will return the passed byte with the bit at the specified index set to 1.
func Set(index, value uint8) uint8 {
	return value | (1 << index)
}

// Clear will return the passed byte with the bit at the specified index set to 0.
func Clear(index, value uint8) uint8 {
	return value & ^(1 << index)
}

// Field16 extracts a bit field from a 16 bit register value.
// shift is the position of the field's lowest bit, width its size in bits.
func Field16(value uint16, shift, width uint8) uint16 {
	return (value >> shift) & ((1 << width) - 1)
}
