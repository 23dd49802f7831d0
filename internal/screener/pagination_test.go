package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pages(nums ...int) []PageLabel {
	labels := make([]PageLabel, 0, len(nums))
	for _, n := range nums {
		if n < 0 {
			labels = append(labels, PageLabel{Gap: true})
			continue
		}
		labels = append(labels, PageLabel{Page: n})
	}
	return labels
}

func TestPageLabels(t *testing.T) {
	tests := []struct {
		name                    string
		current, total, visible int
		want                    []PageLabel
	}{
		{name: "middle window", current: 10, total: 50, visible: 5, want: pages(1, -1, 8, 9, 10, 11, 12, -1, 50)},
		{name: "fits", current: 1, total: 3, visible: 5, want: pages(1, 2, 3)},
		{name: "start", current: 1, total: 50, visible: 5, want: pages(1, 2, 3, 4, 5, -1, 50)},
		{name: "near start", current: 4, total: 50, visible: 5, want: pages(1, 2, 3, 4, 5, 6, -1, 50)},
		{name: "end", current: 50, total: 50, visible: 5, want: pages(1, -1, 46, 47, 48, 49, 50)},
		{name: "adjacent last page", current: 47, total: 50, visible: 5, want: pages(1, -1, 45, 46, 47, 48, 49, 50)},
		{name: "single slot", current: 7, total: 9, visible: 1, want: pages(1, -1, 7, -1, 9)},
		{name: "current clamped", current: 99, total: 4, visible: 3, want: pages(1, 2, 3, 4)},
		{name: "empty", current: 1, total: 0, visible: 5, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageLabels(tt.current, tt.total, tt.visible))
		})
	}
}

func TestVisibleSlots(t *testing.T) {
	tests := []struct {
		available, width, want int
	}{
		{available: 0, width: 5, want: 1},
		{available: 10, width: 5, want: 1},
		{available: 15, width: 5, want: 3},
		{available: 20, width: 5, want: 3},
		{available: 500, width: 5, want: 21},
		{available: 100, width: 0, want: 1},
	}
	for _, tt := range tests {
		got := VisibleSlots(tt.available, tt.width)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, 1, got%2, "slot count must be odd")
	}
}

func TestShownRange(t *testing.T) {
	from, to := ShownRange(2, 25, 25, 60)
	assert.Equal(t, int64(26), from)
	assert.Equal(t, int64(50), to)

	from, to = ShownRange(3, 25, 10, 60)
	assert.Equal(t, int64(51), from)
	assert.Equal(t, int64(60), to)

	from, to = ShownRange(1, 25, 0, 0)
	assert.Zero(t, from)
	assert.Zero(t, to)
}
