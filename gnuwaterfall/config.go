package gnuwaterfall

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chzchzchz/gnuwaterfall/radio"
)

// Duration is a time.Duration written as "60s" in config files.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("gnuwaterfall.Duration: failed to parse: %w", err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) { return d.String(), nil }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) Seconds() float64 { return time.Duration(d).Seconds() }

// DemoConfig parameterizes the synthetic device.
type DemoConfig struct {
	Seed     uint64          `yaml:"seed"`
	Noise    float64         `yaml:"noise"`
	Carriers []radio.Carrier `yaml:"carriers"`
}

type Config struct {
	// Device is "demo", tcp://host:port or sdr://host:port/serial.
	Device string          `yaml:"device"`
	RTL    radio.RTLConfig `yaml:"rtl"`
	Demo   DemoConfig      `yaml:"demo"`

	// History is how far back the waterfall reaches.
	History Duration `yaml:"history"`
	// TickRate is sweeps per second.
	TickRate float64 `yaml:"tick_rate"`
	// Settle is how long to wait after retuning before reading.
	Settle     Duration `yaml:"settle"`
	Oversample int      `yaml:"oversample"`
	HideDC     bool     `yaml:"hide_dc"`
	Async      bool     `yaml:"async"`

	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	LabelSize float64 `yaml:"label_size"`
}

func DefaultConfig() Config {
	return Config{
		Device: "tcp://127.0.0.1:1234",
		RTL: radio.RTLConfig{
			Addr: "127.0.0.1:1234",
			Gain: 400,
		},
		Demo: DemoConfig{
			Seed:  1,
			Noise: 0.01,
			Carriers: []radio.Carrier{
				{Freq: 88.5e6, Amplitude: 0.5},
				{Freq: 94.9e6, Amplitude: 0.2},
				{Freq: 101.1e6, Amplitude: 0.05},
			},
		},
		History:    Duration(60 * time.Second),
		TickRate:   10,
		Settle:     Duration(radio.SettleDelay),
		Oversample: radio.DefaultOversample,
		Width:      640,
		Height:     480,
		LabelSize:  24,
	}
}

// LoadConfig overlays the YAML file at path onto the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.History <= 0 {
		errs = append(errs, fmt.Errorf("history must be positive, got %v", c.History))
	}
	switch {
	case !(c.TickRate > 0):
		errs = append(errs, fmt.Errorf("tick rate must be positive, got %g", c.TickRate))
	case c.TickInterval() <= 0:
		errs = append(errs, fmt.Errorf("tick rate %g is too high", c.TickRate))
	}
	if !(c.LabelSize > 0) {
		errs = append(errs, fmt.Errorf("label size must be positive, got %g", c.LabelSize))
	}
	if c.Settle < 0 {
		errs = append(errs, fmt.Errorf("settle must not be negative, got %v", c.Settle))
	}
	if c.Oversample < 1 {
		errs = append(errs, fmt.Errorf("oversample must be at least 1, got %d", c.Oversample))
	}
	if c.Width < 1 || c.Height < 1 {
		errs = append(errs, fmt.Errorf("bad window size %dx%d", c.Width, c.Height))
	}
	if c.Device == "" {
		errs = append(errs, errors.New("no device"))
	}
	return errors.Join(errs...)
}

// TickInterval is the period between sweeps.
func (c Config) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}
