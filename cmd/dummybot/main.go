package main

import (
	"context"
	"flag"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"

	"github.com/Garsondee/RoboRadar/internal/config"
	"github.com/Garsondee/RoboRadar/internal/pose"
	"github.com/Garsondee/RoboRadar/internal/radar"
	"github.com/Garsondee/RoboRadar/internal/shape"
)

func main() {
	var (
		path   string
		flags  config.Flags
		rate   int
		radius float64
		color  string
	)
	flag.StringVar(&path, "c", "", "config file (default: RoboRadarConfig.json if present)")
	flag.BoolVar(&flags.Local, "l", false, "publish to a broker on 127.0.0.1")
	flag.IntVar(&flags.Team, "team", 0, "team number")
	flag.IntVar(&rate, "rate", 100, "updates per second")
	flag.Float64Var(&radius, "radius", pose.OrbitRadius, "orbit radius in inches")
	flag.StringVar(&color, "color", "", "team colour, e.g. #0000ff")
	flag.Parse()
	defer glog.Flush()

	cfg, _, err := config.LoadOrDefault(path)
	if err != nil {
		glog.Exitf("config: %v", err)
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		glog.Exitf("config: %v", err)
	}

	pub, err := pose.NewPublisher(cfg.BrokerURL(), pose.ClientID("dummybot"))
	if err != nil {
		glog.Exitf("pose: %v", err)
	}
	if err := pub.Connect(5 * time.Second); err != nil {
		glog.Exitf("pose: %v", err)
	}
	defer pub.Close()
	if color != "" {
		c, err := pose.ParseColor([]byte(color))
		if err != nil {
			glog.Exitf("color: %v", err)
		}
		pub.Color(c)
	} else {
		pub.Color(shape.RGB{B: 255})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	glog.Infof("dummybot: publishing orbit to %s at %d Hz", cfg.BrokerURL(), rate)
	step := 1 / float64(rate)
	t := 0.0
	err = radar.Run(ctx, rate, func() error {
		x, y, r := pose.At(radius, t)
		s, c := math.Sincos(r)
		pub.Number(pose.KeyX, x)
		pub.Number(pose.KeyY, y)
		pub.Number(pose.KeyR, r)
		pub.Number(pose.KeyRSin, s)
		pub.Number(pose.KeyRCos, c)
		t += step
		return nil
	})
	if err != nil && ctx.Err() == nil {
		glog.Exitf("dummybot: %v", err)
	}
}
