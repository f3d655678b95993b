// Package config loads RoboRadarConfig.json and resolves command line
// overrides into one value passed to every component.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Garsondee/RoboRadar/internal/fault"
	"github.com/Garsondee/RoboRadar/internal/render"
	"github.com/Garsondee/RoboRadar/internal/units"
)

// FileName is the config file looked up by Find.
const FileName = "RoboRadarConfig.json"

// LocalAddress replaces the robot address when running against a local
// broker.
const LocalAddress = "127.0.0.1"

// ErrInvalid wraps every validation failure.
var ErrInvalid = fmt.Errorf("%w: invalid config", fault.ErrConfiguration)

// Config is the whole RoboRadar configuration.
type Config struct {
	Team   Team   `json:"team"`
	Robot  Robot  `json:"robot"`
	Video  Video  `json:"video"`
	Field  Field  `json:"field"`
	Units  string `json:"units,omitempty"`
	Strict bool   `json:"strict,omitempty"`

	MetricsAddr string `json:"metrics_addr,omitempty"`
}

type Team struct {
	Number int `json:"number"`
}

// Robot locates the robot's pose broker.
type Robot struct {
	// Address overrides the team-derived address when set.
	Address string `json:"address,omitempty"`
	// AddressFormat has two {} placeholders filled with the team number's
	// hundreds and its last two digits, unpadded: team 254 gives 10.2.54.2.
	AddressFormat string `json:"address_format"`
	Port          int    `json:"port"`
	TopicPrefix   string `json:"topic_prefix"`
	Type          string `json:"type"`
}

type Video struct {
	Engine    string `json:"engine"`
	FPS       int    `json:"fps"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Antialias *bool  `json:"antialias,omitempty"`
	Filled    *bool  `json:"filled,omitempty"`
}

type Field struct {
	Name string   `json:"name"`
	Dirs []string `json:"dirs,omitempty"`
}

// Default is the configuration used when no file exists.
func Default() Config {
	return Config{
		Robot: Robot{
			AddressFormat: "10.{}.{}.2",
			Port:          1883,
			TopicPrefix:   "roboradar/",
			Type:          "BoxBot",
		},
		Video: Video{
			Engine: "immediate",
			FPS:    60,
			Width:  480,
			Height: 640,
		},
		Field: Field{Name: "FRC_2020", Dirs: []string{"fields"}},
	}
}

// Find returns the config file in the working directory, else the one
// beside the executable, else "".
func Find() string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	for _, d := range dirs {
		p := filepath.Join(d, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads a JSON config file over Default. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", fault.ErrConfiguration, path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or the file Find locates when path is empty,
// or Default when there is none.
func LoadOrDefault(path string) (Config, string, error) {
	if path == "" {
		path = Find()
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Flags holds command line values that override the file.
type Flags struct {
	Local       bool
	Team        int
	Field       string
	Engine      string
	Robot       string
	MetricsAddr string
}

// Resolve applies flags and fills zero values with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Team > 0 {
		c.Team.Number = flags.Team
	}
	if flags.Field != "" {
		c.Field.Name = flags.Field
	}
	if flags.Engine != "" {
		c.Video.Engine = flags.Engine
	}
	if flags.Robot != "" {
		c.Robot.Type = flags.Robot
	}
	if flags.MetricsAddr != "" {
		c.MetricsAddr = flags.MetricsAddr
	}
	if flags.Local {
		c.Robot.Address = LocalAddress
	}

	d := Default()
	if c.Robot.AddressFormat == "" {
		c.Robot.AddressFormat = d.Robot.AddressFormat
	}
	if c.Robot.Port == 0 {
		c.Robot.Port = d.Robot.Port
	}
	if c.Robot.Type == "" {
		c.Robot.Type = d.Robot.Type
	}
	if c.Video.Engine == "" {
		c.Video.Engine = d.Video.Engine
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = d.Video.FPS
	}
	if c.Video.Width == 0 {
		c.Video.Width = d.Video.Width
	}
	if c.Video.Height == 0 {
		c.Video.Height = d.Video.Height
	}
	if c.Field.Name == "" {
		c.Field.Name = d.Field.Name
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	if c.Robot.Address == "" {
		if c.Team.Number <= 0 || c.Team.Number > 9999 {
			bad("team number %d must be 1-9999 when robot.address is unset", c.Team.Number)
		}
		if n := strings.Count(c.Robot.AddressFormat, "{}"); n != 2 {
			bad("robot.address_format %q needs two {} placeholders, has %d", c.Robot.AddressFormat, n)
		}
	}
	if c.Robot.Port <= 0 || c.Robot.Port > 65535 {
		bad("robot.port %d out of range", c.Robot.Port)
	}
	if c.Video.FPS <= 0 {
		bad("video.fps %d must be positive", c.Video.FPS)
	}
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		bad("video size %dx%d must be positive", c.Video.Width, c.Video.Height)
	}
	if _, err := c.Engine(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.WorkingUnits(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Engine parses video.engine.
func (c *Config) Engine() (render.Engine, error) {
	return render.ParseEngine(c.Video.Engine)
}

// WorkingUnits parses units; empty keeps each field's own unit.
func (c *Config) WorkingUnits() (units.Unit, error) {
	if c.Units == "" {
		return "", nil
	}
	return units.Parse(c.Units)
}

// RenderOptions maps the video toggles onto the renderer.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		NoAntialias: c.Video.Antialias != nil && !*c.Video.Antialias,
		Wireframe:   c.Video.Filled != nil && !*c.Video.Filled,
	}
}

// BrokerHost is the explicit robot address or the one derived from the
// team number: the first placeholder gets the team's hundreds, the second
// its last two digits. Team 1234 with "10.{}.{}.2" gives 10.12.34.2 and
// team 254 gives 10.2.54.2.
func (c *Config) BrokerHost() string {
	if c.Robot.Address != "" {
		return c.Robot.Address
	}
	n := c.Team.Number % 10000
	host := strings.Replace(c.Robot.AddressFormat, "{}", strconv.Itoa(n/100), 1)
	return strings.Replace(host, "{}", strconv.Itoa(n%100), 1)
}

// BrokerURL is the MQTT URL MQTTSource connects to.
func (c *Config) BrokerURL() string {
	return "mqtt://" + c.BrokerHost() + ":" + strconv.Itoa(c.Robot.Port) + "/" + strings.TrimPrefix(c.Robot.TopicPrefix, "/")
}
