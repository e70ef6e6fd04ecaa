package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(w, h int) string {
	return strings.TrimSuffix(strings.Repeat(strings.Repeat(".", w)+"\n", h), "\n")
}

func TestPlace_Center(t *testing.T) {
	result := Place(Config{Width: 5, Height: 3, Position: Center}, "X", "ABCDE\nFGHIJ\nKLMNO")

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ABCDE", lines[0])
	assert.Equal(t, "FGXIJ", lines[1])
	assert.Equal(t, "KLMNO", lines[2])
}

func TestPlace_TopAndBottomPadding(t *testing.T) {
	top := strings.Split(Place(Config{Width: 5, Height: 5, Position: Top, PadY: 1}, "XX", grid(5, 5)), "\n")
	assert.Equal(t, ".....", top[0])
	assert.Equal(t, ".XX..", top[1])

	bottom := strings.Split(Place(Config{Width: 5, Height: 5, Position: Bottom, PadY: 1}, "XX", grid(5, 5)), "\n")
	assert.Equal(t, ".....", bottom[4])
	assert.Equal(t, ".XX..", bottom[3])
}

func TestPlace_BottomRight(t *testing.T) {
	lines := strings.Split(Place(Config{Width: 6, Height: 3, Position: BottomRight, PadX: 1}, "XX", grid(6, 3)), "\n")

	assert.Equal(t, "...XX.", lines[2])
	assert.Equal(t, "......", lines[1])
}

func TestPlace_PadsShortBackground(t *testing.T) {
	lines := strings.Split(Place(Config{Width: 5, Height: 3, Position: Center}, "XX\nXX", ""), "\n")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "XX")
}

func TestPlace_ForegroundLargerThanCanvas(t *testing.T) {
	lines := strings.Split(Place(Config{Width: 3, Height: 3, Position: Center}, "XXXXX\nXXXXX", "AAA\nAAA\nAAA"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "XXXXX", lines[0])
}

func TestPlace_KeepsBackgroundStyling(t *testing.T) {
	bg := "\x1b[31mRED\x1b[0m\n\x1b[31mRED\x1b[0m\n\x1b[31mRED\x1b[0m"

	result := Place(Config{Width: 3, Height: 3, Position: Center}, "X", bg)

	assert.Contains(t, result, "\x1b[31m")
	assert.Contains(t, result, "X")
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		wantX int
		wantY int
	}{
		{"center", Config{Width: 10, Height: 10, Position: Center}, 3, 4},
		{"top", Config{Width: 10, Height: 10, Position: Top, PadY: 2}, 3, 2},
		{"bottom", Config{Width: 10, Height: 10, Position: Bottom, PadY: 1}, 3, 7},
		{"bottom right", Config{Width: 10, Height: 10, Position: BottomRight, PadX: 2, PadY: 1}, 4, 7},
		{"clamped", Config{Width: 2, Height: 1, Position: Center}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := origin(tt.cfg, 4, 2)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}
