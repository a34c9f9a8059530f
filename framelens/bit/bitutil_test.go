package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, uint16(0xCAFE), Combine(0xCA, 0xFE))
	assert.Equal(t, uint16(0x0000), Combine(0x00, 0x00))
}

func TestIsSet(t *testing.T) {
	assert.True(t, IsSet(0, 0x01))
	assert.True(t, IsSet(7, 0x80))
	assert.False(t, IsSet(3, 0xF7))
}

func TestSetClear(t *testing.T) {
	assert.Equal(t, uint8(0x81), Set(7, 0x01))
	assert.Equal(t, uint8(0x01), Clear(7, 0x81))
	// idempotent
	assert.Equal(t, uint8(0x81), Set(7, 0x81))
	assert.Equal(t, uint8(0x01), Clear(7, 0x01))
}

func TestField16(t *testing.T) {
	tests := []struct {
		name     string
		value    uint16
		shift    uint8
		width    uint8
		expected uint16
	}{
		{"priority bits", 0x0003, 0, 2, 3},
		{"screen base", 0x1F00, 8, 5, 0x1F},
		{"size bits", 0xC000, 14, 2, 3},
		{"middle field", 0x0C00, 10, 2, 3},
		{"zero", 0x0000, 4, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Field16(tt.value, tt.shift, tt.width))
		})
	}
}
