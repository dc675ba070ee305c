package gnuwaterfall

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gnuwaterfall.yaml")
	data := `
device: sdr://127.0.0.1:1235/0
rtl:
  gain: 280
history: 2m
tick_rate: 5
hide_dc: true
demo:
  carriers:
    - freq: 145.5e6
      amplitude: 0.3
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "sdr://127.0.0.1:1235/0" || cfg.RTL.Gain != 280 {
		t.Fatalf("unexpected device config %+v", cfg)
	}
	if time.Duration(cfg.History) != 2*time.Minute || cfg.TickRate != 5 || !cfg.HideDC {
		t.Fatalf("unexpected timing config %+v", cfg)
	}
	if len(cfg.Demo.Carriers) != 1 || cfg.Demo.Carriers[0].Freq != 145.5e6 {
		t.Fatalf("unexpected carriers %+v", cfg.Demo.Carriers)
	}
	// Unset keys keep their defaults.
	def := DefaultConfig()
	if cfg.Width != def.Width || cfg.Oversample != def.Oversample || cfg.Settle != def.Settle {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.TickInterval() != 200*time.Millisecond {
		t.Fatalf("unexpected tick interval %v", cfg.TickInterval())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
	}{
		{"bad duration", "history: forever\n"},
		{"negative history", "history: -1s\n"},
		{"zero rate", "tick_rate: 0\n"},
		{"no oversample", "oversample: 0\n"},
		{"zero label size", "label_size: 0\n"},
		{"tick rate too high", "tick_rate: 1e10\n"},
		{"nan tick rate", "tick_rate: .nan\n"},
		{"not yaml", "{{{\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.History.Seconds() != 60 || cfg.TickRate != 10 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestDurationMarshal(t *testing.T) {
	out, err := yaml.Marshal(struct {
		D Duration `yaml:"d"`
	}{Duration(90 * time.Second)})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "d: 1m30s\n" {
		t.Fatalf("unexpected yaml %q", out)
	}
}
