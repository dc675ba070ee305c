package radio

import (
	"errors"
	"testing"
	"time"
)

type fakeDevice struct {
	centers []uint32
	rates   []uint32
	reads   []int

	readErr  error
	shortBy  int
	setError error
}

func (d *fakeDevice) SetCenterFreq(hz uint32) error {
	if d.setError != nil {
		return d.setError
	}
	d.centers = append(d.centers, hz)
	return nil
}

func (d *fakeDevice) SetSampleRate(hz uint32) error {
	if d.setError != nil {
		return d.setError
	}
	d.rates = append(d.rates, hz)
	return nil
}

func (d *fakeDevice) ReadSamples(n int) ([]complex64, error) {
	d.reads = append(d.reads, n)
	if d.readErr != nil {
		return nil, d.readErr
	}
	return make([]complex64, n-d.shortBy), nil
}

func (d *fakeDevice) Close() error { return nil }

func newTestTuner(dev Device) (*Tuner, *[]time.Duration) {
	var slept []time.Duration
	t := NewTuner(dev)
	t.sleep = func(d time.Duration) { slept = append(slept, d) }
	return t, &slept
}

func TestTuneIdempotent(t *testing.T) {
	dev := &fakeDevice{}
	tuner, slept := newTestTuner(dev)
	for i := 0; i < 2; i++ {
		if err := tuner.Tune(100e6, 2e6); err != nil {
			t.Fatal(err)
		}
	}
	if len(dev.centers) != 1 || len(dev.rates) != 1 {
		t.Fatalf("expected one reconfiguration, got centers=%v rates=%v", dev.centers, dev.rates)
	}
	if len(*slept) != 1 || (*slept)[0] != SettleDelay {
		t.Fatalf("expected a single %v settle, got %v", SettleDelay, *slept)
	}
	if len(dev.reads) != 1 || dev.reads[0] != flushSamples {
		t.Fatalf("expected one %d sample flush, got %v", flushSamples, dev.reads)
	}
	if tuner.Retunes() != 1 {
		t.Fatalf("expected 1 retune, got %d", tuner.Retunes())
	}
}

func TestTuneOnlyChangedField(t *testing.T) {
	tests := []struct {
		name            string
		center, rate    float64
		centers, rates  int
		expectedRetunes int
	}{
		{"same", 100e6, 2e6, 1, 1, 1},
		{"center", 101e6, 2e6, 2, 1, 2},
		{"rate", 100e6, 2.4e6, 1, 2, 2},
		{"both", 101e6, 2.4e6, 2, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := &fakeDevice{}
			tuner, _ := newTestTuner(dev)
			if err := tuner.Tune(100e6, 2e6); err != nil {
				t.Fatal(err)
			}
			if err := tuner.Tune(tt.center, tt.rate); err != nil {
				t.Fatal(err)
			}
			if len(dev.centers) != tt.centers || len(dev.rates) != tt.rates {
				t.Fatalf("centers=%v rates=%v", dev.centers, dev.rates)
			}
			if tuner.Retunes() != tt.expectedRetunes {
				t.Fatalf("expected %d retunes, got %d", tt.expectedRetunes, tuner.Retunes())
			}
			if st := tuner.State(); st.Center != tt.center || st.Rate != tt.rate {
				t.Fatalf("unexpected state %+v", st)
			}
		})
	}
}

func TestTuneFailureRetries(t *testing.T) {
	dev := &fakeDevice{setError: errors.New("usb gone")}
	tuner, slept := newTestTuner(dev)
	if err := tuner.Tune(100e6, 2e6); err == nil {
		t.Fatal("expected error")
	}
	if len(*slept) != 0 {
		t.Fatal("should not settle after a failed write")
	}
	dev.setError = nil
	if err := tuner.Tune(100e6, 2e6); err != nil {
		t.Fatal(err)
	}
	if len(dev.centers) != 1 || len(dev.rates) != 1 {
		t.Fatalf("expected retry to reach hardware, got centers=%v rates=%v", dev.centers, dev.rates)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		dev  *fakeDevice
		kind error
	}{
		{"short", &fakeDevice{shortBy: 3}, ErrShortRead},
		{"unavailable", &fakeDevice{readErr: errors.New("eof")}, ErrDeviceUnavailable},
		{"busy", &fakeDevice{readErr: newAcqError(ErrDeviceBusy, "read", nil)}, ErrDeviceBusy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuner, _ := newTestTuner(tt.dev)
			_, err := tuner.Read(64)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if !IsAcquisitionError(err) {
				t.Fatalf("expected acquisition error, got %T", err)
			}
		})
	}
}

func TestReadExactCount(t *testing.T) {
	tuner, _ := newTestTuner(&fakeDevice{})
	samps, err := tuner.Read(123)
	if err != nil {
		t.Fatal(err)
	}
	if len(samps) != 123 {
		t.Fatalf("expected 123 samples, got %d", len(samps))
	}
}
