package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/Garsondee/RoboRadar/internal/config"
	"github.com/Garsondee/RoboRadar/internal/field"
	"github.com/Garsondee/RoboRadar/internal/pose"
	"github.com/Garsondee/RoboRadar/internal/radar"
	"github.com/Garsondee/RoboRadar/internal/render"
	"github.com/Garsondee/RoboRadar/internal/robots"
	"github.com/Garsondee/RoboRadar/internal/snapshot"
)

type options struct {
	configPath  string
	field       string
	engine      string
	robot       string
	pose        string
	out         string
	frames      int
	width       int
	height      int
	supersample int
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "c", "", "config file (default: RoboRadarConfig.json if present)")
	flag.StringVar(&o.field, "field", "", "field index, file id, name, theme or alias")
	flag.StringVar(&o.engine, "engine", "", "render engine: immediate or retained")
	flag.StringVar(&o.robot, "robot", "", "robot type")
	flag.StringVar(&o.pose, "pose", "", "fixed pose x,y,heading in the robot's units and radians (default: orbit)")
	flag.StringVar(&o.out, "out", "radar.png", "output image, .png or .webp")
	flag.IntVar(&o.frames, "frames", 60, "frames to render before the snapshot")
	flag.IntVar(&o.width, "width", 0, "output width (default: video.width)")
	flag.IntVar(&o.height, "height", 0, "output height (default: video.height)")
	flag.IntVar(&o.supersample, "supersample", 1, "render at N times the size and downscale")
	flag.Parse()

	if err := run(o, os.Stdout); err != nil {
		fmt.Printf("error: %v\n", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}

func run(o options, w io.Writer) error {
	if o.frames <= 0 {
		return fmt.Errorf("-frames must be > 0")
	}
	if o.supersample <= 0 {
		return fmt.Errorf("-supersample must be > 0")
	}

	cfg, path, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return err
	}
	cfg.Resolve(config.Flags{Field: o.field, Engine: o.engine, Robot: o.robot})
	if o.width > 0 {
		cfg.Video.Width = o.width
	}
	if o.height > 0 {
		cfg.Video.Height = o.height
	}
	engine, err := cfg.Engine()
	if err != nil {
		return err
	}
	working, err := cfg.WorkingUnits()
	if err != nil {
		return err
	}
	catalog, err := field.Discover(cfg.Field.Dirs...)
	if err != nil {
		return err
	}

	W, H := cfg.Video.Width*o.supersample, cfg.Video.Height*o.supersample
	scene := render.NewSceneGraph(W, H)
	surface, err := render.NewSurface(engine, render.Backend{
		NewCanvas: func(w, h int) render.Canvas { return render.NewRasterCanvas(w, h) },
		Scene:     scene,
	}, cfg.RenderOptions())
	if err != nil {
		return err
	}
	r := radar.New(W, H, surface,
		radar.WithUnits(working),
		radar.WithStrict(cfg.Strict),
		radar.WithCatalog(catalog),
	)
	if err := r.LoadField(cfg.Field.Name); err != nil {
		return err
	}

	src, err := poseSource(o.pose)
	if err != nil {
		return err
	}
	bot, err := robots.Builtin().New(cfg.Robot.Type, src)
	if err != nil {
		return err
	}
	if _, err := r.Add(bot); err != nil {
		return err
	}

	for i := 0; i < o.frames; i++ {
		if clk, ok := src.(*frameClock); ok {
			clk.frame = i
		}
		if err := r.RenderFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	img := frameImage(surface, scene, W, H)
	if o.supersample > 1 {
		img = snapshot.Downsample(img, cfg.Video.Width, cfg.Video.Height)
	}
	if err := snapshot.WriteFile(o.out, img); err != nil {
		return err
	}

	if path == "" {
		path = "defaults"
	}
	fmt.Fprintf(w, "=== RoboRadar Snapshot ===\n")
	fmt.Fprintf(w, "config=%s engine=%s frames=%d size=%dx%d supersample=%d\n",
		path, engine, r.Frames(), cfg.Video.Width, cfg.Video.Height, o.supersample)
	fmt.Fprintf(w, "wrote %s\n\n", o.out)
	fmt.Fprint(w, r.Report())
	return nil
}

func frameImage(s render.Surface, scene *render.SceneGraph, w, h int) *image.RGBA {
	if imm, ok := s.(*render.ImmediateSurface); ok {
		if c, ok := imm.Visible().(*render.RasterCanvas); ok {
			return c.Image()
		}
	}
	out := render.NewRasterCanvas(w, h)
	scene.DrawTo(out)
	return out.Image()
}

// frameClock is an orbit whose time advances one sixtieth of a second per
// rendered frame, so snapshots are reproducible.
type frameClock struct {
	*pose.Orbit
	frame int
}

func poseSource(arg string) (pose.Source, error) {
	if arg == "" {
		clk := &frameClock{Orbit: pose.NewOrbit()}
		base := time.Unix(0, 0)
		clk.Now = func() time.Time {
			return base.Add(time.Duration(clk.frame) * time.Second / 60)
		}
		return clk, nil
	}
	parts := strings.Split(arg, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("-pose wants x,y,heading, got %q", arg)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("-pose: %w", err)
		}
		v[i] = f
	}
	return pose.Static{PosX: v[0], PosY: v[1], R: v[2]}, nil
}
