// Command linkroute routes the links of a scene around its elements and
// prints, draws or shows the result.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"

	"linkroute/canvas"
	"linkroute/export"
	"linkroute/obstacles"
	"linkroute/pathfinding"
	"linkroute/scene"
	"linkroute/terminal"
)

// ErrLinksFailed is returned when some links could not be routed at all.
var ErrLinksFailed = errors.New("links failed to route")

type cli struct {
	app *kingpin.Application

	verbose       *bool
	dump          *bool
	step          *float64
	bendCost      *float64
	padding       *float64
	maxExpansions *int
	workers       *int

	route          *kingpin.CmdClause
	routeScene     *string
	routeFormat    *string
	routeOutput    *string
	routeColor     *bool
	routeObstacles *bool
	routeHighlight *string
	routeCheck     *bool

	png          *kingpin.CmdClause
	pngScene     *string
	pngOutput    *string
	pngScale     *float64
	pngImgcat    *bool
	pngObstacles *bool

	view      *kingpin.CmdClause
	viewScene *string
}

func newCLI() *cli {
	c := &cli{app: kingpin.New("linkroute", "Orthogonal link router for boxes-and-lines scenes.")}
	app := c.app

	c.verbose = app.Flag("verbose", "Log routing decisions to stderr.").Short('v').Bool()
	c.dump = app.Flag("dump", "Dump the routing results to stderr.").Bool()
	c.step = app.Flag("step", "Override the grid step.").Default("-1").Float64()
	c.bendCost = app.Flag("bend-cost", "Override the cost of a direction change.").Default("-1").Float64()
	c.padding = app.Flag("padding", "Override the obstacle padding.").Default("-1").Float64()
	c.maxExpansions = app.Flag("max-expansions", "Override the expansion limit per search (0 = unlimited).").Default("-1").Int()
	c.workers = app.Flag("workers", "Links routed in parallel (0 = one per CPU).").Default("0").Int()

	c.route = app.Command("route", "Route a scene and print the result.").Default()
	c.routeScene = c.route.Arg("scene", "Scene file.").Required().ExistingFile()
	c.routeFormat = c.route.Flag("format", "Output format: ascii, json or yaml.").Short('f').Default("ascii").Enum("ascii", "text", "txt", "json", "yaml", "yml")
	c.routeOutput = c.route.Flag("output", "Output file (default: stdout).").Short('o').String()
	c.routeColor = c.route.Flag("color", "Colour ASCII output.").Bool()
	c.routeObstacles = c.route.Flag("obstacles", "Shade blocked cells.").Bool()
	c.routeHighlight = c.route.Flag("highlight", "Link to emphasise.").String()
	c.routeCheck = c.route.Flag("check", "Report broken line junctions in the drawing.").Bool()

	c.png = app.Command("png", "Route a scene and draw it as a PNG image.")
	c.pngScene = c.png.Arg("scene", "Scene file.").Required().ExistingFile()
	c.pngOutput = c.png.Flag("output", "PNG file to write.").Short('o').Required().String()
	c.pngScale = c.png.Flag("scale", "Pixels per scene unit.").Default("2").Float64()
	c.pngImgcat = c.png.Flag("imgcat", "Show the image in the terminal.").Bool()
	c.pngObstacles = c.png.Flag("obstacles", "Draw padded obstacles.").Bool()

	c.view = app.Command("view", "Explore a routed scene interactively.")
	c.viewScene = c.view.Arg("scene", "Scene file.").Required().ExistingFile()

	return c
}

func main() {
	c := newCLI()
	if err := c.run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "linkroute: %v\n", err)
		os.Exit(1)
	}
}

func (c *cli) run(args []string, stdout, stderr io.Writer) error {
	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case c.route.FullCommand():
		return c.runRoute(ctx, stdout, stderr)
	case c.png.FullCommand():
		return c.runPNG(ctx, stdout, stderr)
	case c.view.FullCommand():
		return c.runView(ctx)
	default:
		return errors.Errorf("unknown command %q", command)
	}
}

func (c *cli) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if *c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadScene reads a scene and applies the command line overrides.
func (c *cli) loadScene(path string) (*scene.Scene, error) {
	s, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	if *c.step >= 0 {
		s.Step = *c.step
	}
	if *c.bendCost >= 0 {
		s.BendCost = *c.bendCost
	}
	if *c.padding >= 0 {
		s.Padding = *c.padding
	}
	if *c.maxExpansions >= 0 {
		s.MaxExpansions = *c.maxExpansions
	}
	return s, s.Validate()
}

// prepare loads and routes a scene.
func (c *cli) prepare(ctx context.Context, path string, stderr io.Writer) (*export.Document, error) {
	s, err := c.loadScene(path)
	if err != nil {
		return nil, err
	}
	logger := c.logger(stderr)
	results, err := s.RouteAll(ctx, *c.workers, pathfinding.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	m, err := s.ObstacleMap()
	if err != nil {
		return nil, err
	}

	if *c.dump {
		dump(stderr, s, m, results)
	}

	doc := &export.Document{Scene: s, Obstacles: m, Results: results, Render: canvas.DefaultRenderOptions()}
	return doc, nil
}

// dump writes the obstacle field and the raw routing results.
func dump(w io.Writer, s *scene.Scene, m *obstacles.ObstacleMap, results []scene.Result) {
	fmt.Fprint(w, obstacles.ExportObstacleData(m))
	if bounds, err := canvas.SceneBounds(s, results); err == nil {
		dv := obstacles.NewDebugVisualizer()
		fmt.Fprintln(w, dv.VisualizeCells(bounds, m.Traversable(s.Step), nil))
		fmt.Fprintln(w, dv.GetLegend())
	}
	spew.Fdump(w, results)
}

func failures(doc *export.Document, logger *slog.Logger) error {
	failed := 0
	for _, r := range doc.Results {
		if r.Err != nil {
			logger.Error("link failed", "link", r.LinkID, "err", r.Err)
			failed++
		}
	}
	if failed > 0 {
		return errors.Wrapf(ErrLinksFailed, "%d of %d", failed, len(doc.Results))
	}
	return nil
}

func createOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create output")
	}
	return f, f.Close, nil
}

func (c *cli) runRoute(ctx context.Context, stdout, stderr io.Writer) error {
	doc, err := c.prepare(ctx, *c.routeScene, stderr)
	if err != nil {
		return err
	}
	doc.Render.ShowObstacles = *c.routeObstacles
	doc.Render.Highlight = *c.routeHighlight

	format, err := export.ParseFormat(*c.routeFormat)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	if format == export.FormatASCII {
		exporter = export.NewASCIIExporter(*c.routeColor)
	}

	w, closeOutput, err := createOutput(*c.routeOutput, stdout)
	if err != nil {
		return err
	}
	if err := exporter.Export(w, doc); err != nil {
		closeOutput()
		return err
	}
	if err := closeOutput(); err != nil {
		return err
	}

	logger := c.logger(stderr)
	if *c.routeCheck {
		if err := check(doc, logger); err != nil {
			return err
		}
	}
	return failures(doc, logger)
}

// check draws the document and logs every broken junction.
func check(doc *export.Document, logger *slog.Logger) error {
	drawing, err := canvas.RenderScene(doc.Scene, doc.Obstacles, doc.Results, doc.Render)
	if err != nil {
		return err
	}
	for _, d := range drawing.Validate() {
		logger.Warn("drawing defect", "defect", d.String())
	}
	return nil
}

func (c *cli) runPNG(ctx context.Context, stdout, stderr io.Writer) error {
	doc, err := c.prepare(ctx, *c.pngScene, stderr)
	if err != nil {
		return err
	}
	doc.Render.ShowObstacles = *c.pngObstacles

	exporter := export.NewPNGExporter()
	exporter.Scale = *c.pngScale

	w, closeOutput, err := createOutput(*c.pngOutput, stdout)
	if err != nil {
		return err
	}
	if err := exporter.Export(w, doc); err != nil {
		closeOutput()
		return err
	}
	if err := closeOutput(); err != nil {
		return err
	}

	if *c.pngImgcat {
		if err := export.Preview(*c.pngOutput, stdout); err != nil {
			return err
		}
	}
	return failures(doc, c.logger(stderr))
}

func (c *cli) runView(ctx context.Context) error {
	s, err := c.loadScene(*c.viewScene)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "open terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "open terminal")
	}
	defer screen.Fini()

	v, err := terminal.NewViewer(screen, s)
	if err != nil {
		return err
	}
	err = v.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
