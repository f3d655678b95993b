package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/RoboRadar/internal/app"
	"github.com/Garsondee/RoboRadar/internal/config"
	"github.com/Garsondee/RoboRadar/internal/field"
	"github.com/Garsondee/RoboRadar/internal/metrics"
	"github.com/Garsondee/RoboRadar/internal/pose"
	"github.com/Garsondee/RoboRadar/internal/radar"
	"github.com/Garsondee/RoboRadar/internal/robots"
)

// Version is reported in the window title.
var Version = "1.0.0"

func main() {
	var (
		path  string
		flags config.Flags
	)
	flag.StringVar(&path, "c", "", "config file (default: RoboRadarConfig.json if present)")
	flag.BoolVar(&flags.Local, "l", false, "connect to a broker on 127.0.0.1")
	flag.BoolVar(&flags.Local, "local", false, "connect to a broker on 127.0.0.1")
	flag.IntVar(&flags.Team, "team", 0, "team number")
	flag.StringVar(&flags.Field, "field", "", "field index, file id, name, theme or alias")
	flag.StringVar(&flags.Engine, "engine", "", "render engine: immediate or retained")
	flag.StringVar(&flags.Robot, "robot", "", "robot type")
	flag.StringVar(&flags.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flag.Parse()
	defer glog.Flush()

	cfg, found, err := config.LoadOrDefault(path)
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	if found != "" {
		glog.Infof("config: loaded %s", found)
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		glog.Exitf("config: %v", err)
	}
	engine, _ := cfg.Engine()
	working, _ := cfg.WorkingUnits()

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		if collector, err = metrics.NewCollector(nil); err != nil {
			glog.Exitf("metrics: %v", err)
		}
		go serveMetrics(cfg.MetricsAddr, collector)
	}

	catalog, err := field.Discover(cfg.Field.Dirs...)
	if err != nil {
		glog.Exitf("fields: %v", err)
	}
	glog.Infof("fields: %d available", catalog.Len())

	surface, err := app.NewSurface(engine, cfg.RenderOptions(), cfg.Video.Width, cfg.Video.Height)
	if err != nil {
		glog.Exitf("render: %v", err)
	}
	glog.Infof("render: using %s engine", engine)

	r := radar.New(cfg.Video.Width, cfg.Video.Height, surface,
		radar.WithUnits(working),
		radar.WithStrict(cfg.Strict),
		radar.WithMetrics(collector),
		radar.WithCatalog(catalog),
	)
	if err := r.LoadField(cfg.Field.Name); err != nil {
		glog.Exitf("field: %v (have %v)", err, catalog.Names())
	}

	src, err := pose.NewMQTTSource(cfg.BrokerURL(), pose.ClientID("viewer"))
	if err != nil {
		glog.Exitf("pose: %v", err)
	}
	defer src.Close()
	glog.Infof("pose: connecting to %s", cfg.BrokerURL())
	if err := src.Connect(2 * time.Second); err != nil {
		// Auto-reconnect keeps trying; poses stay at their defaults meanwhile.
		glog.Warningf("pose: %v", err)
	}

	bot, err := robots.Builtin().New(cfg.Robot.Type, src)
	if err != nil {
		glog.Exitf("robot: %v", err)
	}
	if _, err := r.Add(bot); err != nil {
		glog.Exitf("robot: %v", err)
	}

	g := app.New(r)
	g.Title = fmt.Sprintf("RoboRadar v%s - Team %d", Version, cfg.Team.Number)
	ebiten.SetWindowTitle(g.Title)
	ebiten.SetWindowSize(cfg.Video.Width, cfg.Video.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Video.FPS)
	if err := ebiten.RunGame(g); err != nil {
		glog.Exitf("radar: %v", err)
	}
}

func serveMetrics(addr string, c *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	glog.Infof("metrics: serving on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		glog.Warningf("metrics: %v", err)
	}
}
