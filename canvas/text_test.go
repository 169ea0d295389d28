package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasureText(t *testing.T) {
	assert.Equal(t, 0, MeasureText(""))
	assert.Equal(t, 5, MeasureText("hello"))
	assert.Equal(t, 4, MeasureText("日本"))
}

func TestFitText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "ab", 5, "ab"},
		{"exact", "abcd", 4, "abcd"},
		{"truncated", "element", 4, "ele…"},
		{"no room for ellipsis", "abcdef", 1, "a"},
		{"zero width", "abc", 0, ""},
		{"wide", "日本語", 5, "日本…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitText(tt.text, tt.width, "…")
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, MeasureText(got), tt.width)
		})
	}
}
