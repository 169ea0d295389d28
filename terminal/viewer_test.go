package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkroute/scene"
)

func newTestViewer(t *testing.T) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 20)

	s, err := scene.Load("../scene/testdata/basic.yaml")
	require.NoError(t, err)
	v, err := NewViewer(screen, s)
	require.NoError(t, err)
	return v, screen
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func screenText(screen tcell.SimulationScreen) []string {
	cells, width, height := screen.GetContents()
	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			runes := cells[y*width+x].Runes
			if len(runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(runes[0])
		}
		lines[y] = sb.String()
	}
	return lines
}

func TestNewViewer_RoutesEveryLink(t *testing.T) {
	v, _ := newTestViewer(t)
	results := v.Results()
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err, r.LinkID)
		assert.True(t, r.Route.IsComplete(), r.LinkID)
	}
	assert.Equal(t, "", v.Highlighted())
	assert.Equal(t, 1.0, v.BendCost())
}

func TestNewViewer_InvalidScene(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()

	s := scene.Default()
	s.Step = 0
	_, err := NewViewer(screen, s)
	assert.Error(t, err)
}

func TestViewer_CycleHighlight(t *testing.T) {
	v, _ := newTestViewer(t)

	var got []string
	for i := 0; i < 3; i++ {
		v.HandleKey(key(tcell.KeyTab))
		got = append(got, v.Highlighted())
	}
	assert.Equal(t, []string{"a-b", "free", ""}, got)

	v.HandleKey(key(tcell.KeyBacktab))
	assert.Equal(t, "free", v.Highlighted())
	assert.Equal(t, "free", v.RenderOptions().Highlight)
	assert.Contains(t, v.Status(), "free (2/2)")
}

func TestViewer_BendCostUsesCache(t *testing.T) {
	v, _ := newTestViewer(t)
	assert.Contains(t, v.CacheStats(), "hits=0, misses=2")

	v.HandleKey(runeKey('+'))
	assert.Equal(t, 2.0, v.BendCost())
	v.HandleKey(runeKey('-'))
	assert.Equal(t, 1.0, v.BendCost())
	assert.Contains(t, v.CacheStats(), "hits=2, misses=4")

	v.HandleKey(runeKey('-'))
	v.HandleKey(runeKey('-'))
	assert.Equal(t, 0.0, v.BendCost())
	for _, r := range v.Results() {
		assert.True(t, r.Route.IsComplete(), r.LinkID)
	}
}

func TestViewer_OverlayAndPan(t *testing.T) {
	v, _ := newTestViewer(t)

	v.HandleKey(runeKey('o'))
	assert.True(t, v.RenderOptions().ShowObstacles)
	assert.Contains(t, v.Status(), "obstacles on")

	v.HandleKey(key(tcell.KeyRight))
	v.HandleKey(key(tcell.KeyDown))
	v.HandleKey(key(tcell.KeyDown))
	assert.Equal(t, 1, v.RenderOptions().Pan.X)
	assert.Equal(t, 2, v.RenderOptions().Pan.Y)

	v.HandleKey(runeKey('r'))
	assert.Zero(t, v.RenderOptions().Pan)

	assert.True(t, v.HandleKey(runeKey('q')))
	assert.True(t, v.HandleKey(key(tcell.KeyEscape)))
	assert.False(t, v.HandleKey(runeKey('x')))
}

func TestViewer_Draw(t *testing.T) {
	v, screen := newTestViewer(t)
	require.NoError(t, v.Draw())

	lines := screenText(screen)
	require.Len(t, lines, 20)
	body := strings.Join(lines[:19], "\n")
	assert.Contains(t, body, "●")
	assert.Contains(t, body, "┌")
	assert.True(t, strings.HasPrefix(lines[19], " all links │ bend 1 │"), lines[19])
}

func TestViewer_RunQuits(t *testing.T) {
	v, screen := newTestViewer(t)
	screen.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	require.NoError(t, v.Run(context.Background()))
	assert.Equal(t, "a-b", v.Highlighted())
}

func TestViewer_RunCancelled(t *testing.T) {
	v, _ := newTestViewer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, v.Run(ctx), context.DeadlineExceeded)
}

func TestViewer_LiftElement(t *testing.T) {
	v, _ := newTestViewer(t)
	before := v.Results()[0]
	require.Equal(t, "a-b", before.LinkID)
	require.Greater(t, len(before.Route.Points), 2, "the wall forces a detour")

	for i := 0; i < 3; i++ {
		v.HandleKey(runeKey('e'))
	}
	assert.Equal(t, "wall", v.Selected())
	assert.Contains(t, v.Status(), "element wall")

	v.HandleKey(runeKey('x'))
	assert.True(t, v.Lifted("wall"))
	assert.Contains(t, v.Status(), "element wall lifted")
	lifted := v.Results()[0].Route
	assert.Len(t, lifted.Points, 2, "straight across once the wall is gone")
	assert.Less(t, lifted.Cost, before.Route.Cost)

	v.HandleKey(runeKey('x'))
	assert.False(t, v.Lifted("wall"))
	assert.Equal(t, before.Route, v.Results()[0].Route)
}

func TestViewer_ClearCache(t *testing.T) {
	v, _ := newTestViewer(t)
	v.HandleKey(runeKey('+'))
	v.HandleKey(runeKey('-'))
	assert.Contains(t, v.CacheStats(), "hits=2, misses=4")

	v.HandleKey(runeKey('c'))
	assert.Contains(t, v.CacheStats(), "size=2/256, hits=0, misses=2")
	for _, r := range v.Results() {
		assert.True(t, r.Route.IsComplete(), r.LinkID)
	}
}
