package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacterMerger_Merge(t *testing.T) {
	m := NewCharacterMerger()

	tests := []struct {
		name          string
		existing, new rune
		want          rune
	}{
		{"blank takes new", ' ', 'x', 'x'},
		{"background takes new", '░', '─', '─'},
		{"same", '─', '─', '─'},
		{"cross", '─', '│', '┼'},
		{"corner plus line", '╭', '─', '┬'},
		{"box corner plus line", '┌', '│', '├'},
		{"box side plus route", '│', '─', '┼'},
		{"covered", '┼', '─', '┼'},
		{"covering", '─', '┴', '┴'},
		{"opposite corners", '╭', '╯', '┼'},
		{"arrow kept", '▶', '─', '▶'},
		{"arrow wins", '─', '▼', '▼'},
		{"text kept", 'a', '─', 'a'},
		{"line kept under text", '─', 'a', '─'},
		{"ascii", '-', '|', '┼'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(tt.want), string(m.Merge(tt.existing, tt.new)))
		})
	}
}

func TestCharacterMerger_Glyphs(t *testing.T) {
	m := NewCharacterMerger()
	for arms := Arms(1); arms < 16; arms++ {
		g := m.Glyph(arms)
		got := m.ArmsOf(g)
		assert.Equal(t, got|arms, got, "%c must cover arms %04b", g, arms)
	}
	assert.Equal(t, Arms(0), m.ArmsOf('x'))
}
