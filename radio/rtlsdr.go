package radio

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/kr/pty"
)

var minFreqHz = uint32(24000000)
var maxFreqHz = uint32(1766000000)

// RTLConfig describes how to reach an rtl_tcp server.
type RTLConfig struct {
	// Addr is the host:port rtl_tcp listens on.
	Addr string `yaml:"addr"`
	// Serial, if set, spawns a local rtl_tcp for that device index or serial.
	Serial string `yaml:"serial"`
	// Gain in tenths of dB; the receiver runs with fixed gain.
	Gain uint32 `yaml:"gain"`
	PPM  uint32 `yaml:"ppm"`
	// AGC enables the rtl2832's digital AGC, which sits after the tuner gain.
	AGC bool `yaml:"agc"`
}

type rtlSDR struct {
	*RTLTCPSDR
	cfg  RTLConfig
	cmd  *exec.Cmd
	fpty *os.File

	iqr *IQReader
	mu  sync.Mutex
}

// OpenRTLSDR connects to rtl_tcp, spawning it first when a serial is configured.
func OpenRTLSDR(ctx context.Context, cfg RTLConfig) (Device, error) {
	s := &rtlSDR{cfg: cfg}
	if cfg.Serial != "" {
		if err := s.spawn(ctx); err != nil {
			return nil, err
		}
	}
	sdr, err := connect(ctx, cfg.Addr)
	if err != nil {
		s.Close()
		return nil, newAcqError(ErrDeviceUnavailable, "connect "+cfg.Addr, err)
	}
	s.RTLTCPSDR, s.iqr = sdr, NewIQReader(sdr)
	glog.Infof("connected to rtl_tcp at %s (tuner %d, %d gains)", cfg.Addr, sdr.Info.Tuner, sdr.Info.GainCount)
	if err := s.configure(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *rtlSDR) spawn(ctx context.Context) error {
	host, port, err := net.SplitHostPort(s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("bad rtl_tcp address %q: %w", s.cfg.Addr, err)
	}
	cmd := exec.CommandContext(ctx, "rtl_tcp", "-a", host, "-p", port, "-d", s.cfg.Serial, "-s", "2048000")
	fpty, err := pty.Start(cmd)
	if err != nil {
		return newAcqError(ErrDeviceUnavailable, "spawn rtl_tcp", err)
	}
	go io.Copy(os.Stderr, fpty)
	s.cmd, s.fpty = cmd, fpty
	// TODO: would like to wait for 'listening...' but need tty to line-buffer
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *rtlSDR) configure() error {
	if err := s.SetManualGain(true); err != nil {
		return newAcqError(ErrDeviceUnavailable, "set gain mode", err)
	}
	if err := s.SetGain(s.cfg.Gain); err != nil {
		return newAcqError(ErrDeviceUnavailable, "set gain", err)
	}
	if err := s.SetAGCMode(s.cfg.AGC); err != nil {
		return newAcqError(ErrDeviceUnavailable, "set agc", err)
	}
	if s.cfg.PPM != 0 {
		if err := s.SetFreqCorrection(s.cfg.PPM); err != nil {
			return newAcqError(ErrDeviceUnavailable, "set ppm", err)
		}
	}
	return nil
}

func (s *rtlSDR) SetCenterFreq(hz uint32) error {
	if hz < minFreqHz || hz > maxFreqHz {
		return ErrFrequencyOutOfRange
	}
	if err := s.RTLTCPSDR.SetCenterFreq(hz); err != nil {
		return newAcqError(ErrDeviceUnavailable, "set center", err)
	}
	return nil
}

func (s *rtlSDR) SetSampleRate(hz uint32) error {
	if !isValidRate(hz) {
		return ErrRateOutOfRange
	}
	if err := s.RTLTCPSDR.SetSampleRate(hz); err != nil {
		return newAcqError(ErrDeviceUnavailable, "set rate", err)
	}
	return nil
}

func (s *rtlSDR) ReadSamples(n int) ([]complex64, error) {
	if !s.mu.TryLock() {
		return nil, newAcqError(ErrDeviceBusy, "read samples", nil)
	}
	defer s.mu.Unlock()
	return s.iqr.ReadSamples(n)
}

func (s *rtlSDR) Close() error {
	var err error
	if s.iqr != nil {
		glog.V(1).Infof("rtl_tcp: read %s samples", humanize.Comma(int64(s.iqr.Total())))
	}
	if s.RTLTCPSDR != nil && s.TCPConn != nil {
		err = s.TCPConn.Close()
	}
	if s.cmd != nil {
		s.fpty.Close()
		s.cmd.Wait()
	}
	return err
}

func isValidRate(rate uint32) bool {
	return !((rate <= 225000) || (rate > 3200000) ||
		((rate > 300000) && (rate <= 900000)))
}

func connect(ctx context.Context, hostport string) (*RTLTCPSDR, error) {
	addr, err := net.ResolveTCPAddr("tcp4", hostport)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 10; i++ {
		sdr := &RTLTCPSDR{}
		if err = sdr.Connect(addr); err == nil {
			return sdr, nil
		}
		glog.V(1).Infof("rtl_tcp connect attempt %d: %v", i, err)
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, err
}
