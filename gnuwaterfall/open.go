package gnuwaterfall

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang/glog"

	"github.com/chzchzchz/gnuwaterfall/radio"
)

const defaultRTLAddr = "127.0.0.1:1234"

// OpenDevice opens the receiver named by cfg.Device:
//
//	demo                    synthetic noise and carriers
//	tcp://host:port         an rtl_tcp server that is already running
//	sdr://host:port/serial  spawn rtl_tcp for serial listening on host:port
//	sdr://serial            same, on the default address
func OpenDevice(ctx context.Context, cfg Config) (radio.Device, error) {
	if cfg.Device == "demo" {
		glog.Infof("using synthetic device with %d carriers", len(cfg.Demo.Carriers))
		return radio.NewSynthSDR(cfg.Demo.Seed, cfg.Demo.Noise, cfg.Demo.Carriers...), nil
	}
	rtl, err := rtlConfigFromURL(cfg.Device, cfg.RTL)
	if err != nil {
		return nil, err
	}
	return radio.OpenRTLSDR(ctx, rtl)
}

func rtlConfigFromURL(device string, base radio.RTLConfig) (radio.RTLConfig, error) {
	u, err := url.Parse(device)
	if err != nil {
		return base, fmt.Errorf("bad device %q: %w", device, err)
	}
	cfg := base
	switch u.Scheme {
	case "tcp":
		if u.Host == "" {
			return cfg, fmt.Errorf("expected tcp://host:port, got %q", device)
		}
		cfg.Addr, cfg.Serial = u.Host, ""
	case "sdr":
		if u.Path == "" {
			// sdr://serial
			u.Path, u.Host = u.Host, ""
		}
		if u.Host == "" {
			u.Host = defaultRTLAddr
		}
		cfg.Addr, cfg.Serial = u.Host, strings.Trim(u.Path, "/")
		if cfg.Serial == "" {
			return cfg, fmt.Errorf("no sdr device defined in url %s", u.String())
		}
	default:
		return cfg, fmt.Errorf("expected demo, tcp://host:port or sdr://host:port/serial, got %q", device)
	}
	return cfg, nil
}
