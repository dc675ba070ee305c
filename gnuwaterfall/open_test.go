package gnuwaterfall

import (
	"context"
	"testing"

	"github.com/chzchzchz/gnuwaterfall/radio"
)

func TestRTLConfigFromURL(t *testing.T) {
	base := radio.RTLConfig{Addr: "10.0.0.1:1", Gain: 123}
	tests := []struct {
		device string
		addr   string
		serial string
	}{
		{"tcp://192.168.1.5:1234", "192.168.1.5:1234", ""},
		{"sdr://127.0.0.1:1300/1", "127.0.0.1:1300", "1"},
		{"sdr://00000001", defaultRTLAddr, "00000001"},
	}
	for _, tt := range tests {
		cfg, err := rtlConfigFromURL(tt.device, base)
		if err != nil {
			t.Errorf("%s: %v", tt.device, err)
			continue
		}
		if cfg.Addr != tt.addr || cfg.Serial != tt.serial || cfg.Gain != base.Gain {
			t.Errorf("%s: got %+v", tt.device, cfg)
		}
	}
	for _, bad := range []string{"tcp://", "sdr://host:1234/", "http://x", "/dev/null"} {
		if _, err := rtlConfigFromURL(bad, base); err == nil {
			t.Errorf("%s: expected error", bad)
		}
	}
}

func TestOpenDemo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device = "demo"
	dev, err := OpenDevice(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Close()
	if _, ok := dev.(*radio.SynthSDR); !ok {
		t.Fatalf("expected synthetic device, got %T", dev)
	}
}
