package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-framelens/framelens/inspect"
)

func TestQueueLine(t *testing.T) {
	tests := []struct {
		name     string
		item     inspect.QueueItem
		cursor   bool
		expected string
	}{
		{
			name:     "enabled",
			item:     inspect.QueueItem{Label: "BG 0", Checked: true},
			expected: " [x]  BG 0",
		},
		{
			name:     "disabled with cursor",
			item:     inspect.QueueItem{Label: "Sprite 3", Checked: false},
			cursor:   true,
			expected: ">[ ]  Sprite 3",
		},
		{
			name:     "selected",
			item:     inspect.QueueItem{Label: "Window", Checked: true, Selected: true},
			expected: " [x]* Window",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QueueLine(tt.item, tt.cursor))
		})
	}
}
