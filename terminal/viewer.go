// Package terminal is an interactive viewer for routed scenes.
package terminal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"linkroute/canvas"
	"linkroute/core"
	"linkroute/obstacles"
	"linkroute/pathfinding"
	"linkroute/scene"
)

const cacheSize = 256

// Viewer shows a scene's routes on a tcell screen and re-routes them when
// the routing options change.
type Viewer struct {
	screen    tcell.Screen
	scene     *scene.Scene
	obstacles *obstacles.ObstacleMap
	grid      *pathfinding.Grid
	router    *pathfinding.CachedRouter
	logger    *slog.Logger

	results   []scene.Result
	highlight int // Index into scene.Links, -1 for none
	element   int // Index into scene.Elements, -1 for none
	lifted    map[string]bool
	render    canvas.RenderOptions
	bendCost  float64
}

// ViewerOption configures a Viewer.
type ViewerOption func(*Viewer)

// WithLogger sets the logger handed to the router.
func WithLogger(logger *slog.Logger) ViewerOption {
	return func(v *Viewer) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewViewer validates the scene and routes every link once. The screen
// must already be initialised.
func NewViewer(screen tcell.Screen, s *scene.Scene, opts ...ViewerOption) (*Viewer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	m, err := s.ObstacleMap()
	if err != nil {
		return nil, err
	}
	grid, err := s.NewGrid(m)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		screen:    screen,
		scene:     s,
		obstacles: m,
		grid:      grid,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		highlight: -1,
		element:   -1,
		lifted:    make(map[string]bool),
		render:    canvas.DefaultRenderOptions(),
		bendCost:  s.BendCost,
	}
	for _, opt := range opts {
		opt(v)
	}

	router := pathfinding.NewRouter(grid, pathfinding.WithLogger(v.logger))
	v.router = pathfinding.NewCachedRouter(router, cacheSize)

	v.Reroute()
	return v, nil
}

// Results returns the current routes in link order.
func (v *Viewer) Results() []scene.Result {
	return v.results
}

// Highlighted returns the id of the highlighted link, or "".
func (v *Viewer) Highlighted() string {
	if v.highlight < 0 {
		return ""
	}
	return v.scene.Links[v.highlight].ID
}

// Selected returns the id of the selected element, or "".
func (v *Viewer) Selected() string {
	if v.element < 0 {
		return ""
	}
	return v.scene.Elements[v.element].ID
}

// Lifted reports whether the element id has been taken out of the obstacle
// field.
func (v *Viewer) Lifted(id string) bool {
	return v.lifted[id]
}

// BendCost returns the bend cost routes are computed with.
func (v *Viewer) BendCost() float64 {
	return v.bendCost
}

// RenderOptions returns the current drawing options.
func (v *Viewer) RenderOptions() canvas.RenderOptions {
	return v.render
}

// CacheStats describes the route cache.
func (v *Viewer) CacheStats() string {
	return v.router.CacheStats()
}

// Reroute routes every link with the current options. Unchanged requests
// are served from the cache.
func (v *Viewer) Reroute() {
	opts := v.scene.Options()
	opts.BendCost = v.bendCost
	revision := v.obstacles.Revision()

	v.results = make([]scene.Result, len(v.scene.Links))
	for i, l := range v.scene.Links {
		result := scene.Result{LinkID: l.ID}
		req, err := v.scene.Request(v.grid, l)
		if err == nil {
			result.Route, err = v.router.FindPath(revision, req.Source, req.Target, req.Waypoints, req.Context, opts)
		}
		result.Err = err
		v.results[i] = result
	}
}

// toggleSelected takes the selected element out of the obstacle field, or
// puts it back, and re-routes. An element whose parent is still lifted
// stays lifted.
func (v *Viewer) toggleSelected() {
	if v.element < 0 {
		return
	}
	e := v.scene.Elements[v.element]
	if !v.lifted[e.ID] {
		if v.obstacles.Remove(e.ID) {
			v.lifted[e.ID] = true
			v.logger.Debug("element lifted", "element", e.ID)
		}
	} else {
		if err := v.obstacles.Add(e.Obstacle()); err != nil {
			v.logger.Warn("element not restored", "element", e.ID, "error", err)
			return
		}
		delete(v.lifted, e.ID)
		v.logger.Debug("element restored", "element", e.ID)
	}
	v.Reroute()
}

// HandleKey applies a key press and reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	n := len(v.scene.Links)
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		if n > 0 {
			// -1, 0 .. n-1, -1 ...
			v.highlight = (v.highlight+2)%(n+1) - 1
		}
	case tcell.KeyBacktab:
		if n > 0 {
			v.highlight = (v.highlight+n+1)%(n+1) - 1
		}
	case tcell.KeyUp:
		v.render.Pan.Y--
	case tcell.KeyDown:
		v.render.Pan.Y++
	case tcell.KeyLeft:
		v.render.Pan.X--
	case tcell.KeyRight:
		v.render.Pan.X++
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '+', '=':
			v.bendCost++
			v.Reroute()
		case '-':
			if v.bendCost > 0 {
				v.bendCost = max(0, v.bendCost-1)
				v.Reroute()
			}
		case 'e':
			if ne := len(v.scene.Elements); ne > 0 {
				v.element = (v.element+2)%(ne+1) - 1
			}
		case 'x':
			v.toggleSelected()
		case 'c':
			v.router.ClearCache()
			v.Reroute()
		case 'o':
			v.render.ShowObstacles = !v.render.ShowObstacles
		case 'r':
			v.render.Pan = core.Point{}
		}
	}
	v.render.Highlight = v.Highlighted()
	return false
}

var classStyles = map[canvas.Class]tcell.Style{
	canvas.ClassObstacle:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	canvas.ClassElement:   tcell.StyleDefault.Foreground(tcell.ColorAqua),
	canvas.ClassLabel:     tcell.StyleDefault.Bold(true),
	canvas.ClassRoute:     tcell.StyleDefault.Foreground(tcell.ColorGreen),
	canvas.ClassDegraded:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
	canvas.ClassHighlight: tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true),
	canvas.ClassMarker:    tcell.StyleDefault.Foreground(tcell.ColorRed),
}

// Draw paints the scene above a one line status bar.
func (v *Viewer) Draw() error {
	v.screen.Clear()
	width, height := v.screen.Size()
	if width < 1 || height < 2 {
		v.screen.Show()
		return nil
	}

	sceneBounds, err := canvas.SceneBounds(v.scene, v.results)
	if err != nil {
		return err
	}
	view := core.Bounds{
		Min: sceneBounds.Min,
		Max: core.Point{X: sceneBounds.Min.X + width - 1, Y: sceneBounds.Min.Y + height - 2},
	}
	c, err := canvas.RenderSceneIn(v.scene, v.obstacles, v.results, view, v.render)
	if err != nil {
		return err
	}

	b := c.Bounds()
	for y := 0; y < height-1; y++ {
		for x := 0; x < width; x++ {
			p := core.Point{X: b.Min.X + x, Y: b.Min.Y + y}
			r := c.Get(p)
			if r == '\x00' || r == ' ' {
				continue
			}
			v.screen.SetContent(x, y, r, nil, classStyles[c.ClassAt(p)])
		}
	}

	v.drawStatus(width, height-1)
	v.screen.Show()
	return nil
}

// Status returns the text of the status bar.
func (v *Viewer) Status() string {
	link := "all links"
	if id := v.Highlighted(); id != "" {
		link = fmt.Sprintf("%s (%d/%d)", id, v.highlight+1, len(v.scene.Links))
		if r := v.results[v.highlight]; r.Err != nil {
			link += " error: " + r.Err.Error()
		} else if r.Route.IsDegraded() {
			link += " degraded"
		}
	}
	overlay := "off"
	if v.render.ShowObstacles {
		overlay = "on"
	}
	parts := []string{
		link,
		fmt.Sprintf("bend %g", v.bendCost),
		"obstacles " + overlay,
	}
	if id := v.Selected(); id != "" {
		element := "element " + id
		if v.lifted[id] {
			element += " lifted"
		}
		parts = append(parts, element)
	}
	parts = append(parts,
		"cache "+v.CacheStats(),
		"Tab link  e/x element  +/- bend  o overlay  c cache  arrows pan  q quit",
	)
	return " " + strings.Join(parts, " │ ")
}

func (v *Viewer) drawStatus(width, y int) {
	style := tcell.StyleDefault.Reverse(true)
	text := runewidth.Truncate(v.Status(), width, "…")
	x := 0
	for _, r := range text {
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}

// Run draws and handles events until the user quits or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	if err := v.Draw(); err != nil {
		return err
	}
	for {
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return nil
			}
		}
		if err := v.Draw(); err != nil {
			return err
		}
	}
}
