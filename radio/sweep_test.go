package radio

import (
	"errors"
	"math"
	"testing"
)

type estimateCall struct {
	center, bandwidth float64
	detail            int
}

// recordingEstimator produces flat spectra with the real bin layout.
type recordingEstimator struct {
	calls []estimateCall
	err   error
}

func (r *recordingEstimator) Estimate(center, bandwidth float64, detail int) (Spectrum, error) {
	r.calls = append(r.calls, estimateCall{center, bandwidth, detail})
	if r.err != nil {
		return nil, r.err
	}
	d := Detail(detail)
	s := make(Spectrum, d)
	for i := range s {
		s[i] = Bin{Freq: center + float64(i-d/2)*bandwidth/float64(d), Power: -30}
	}
	return s, nil
}

func TestSweepSingleSegment(t *testing.T) {
	est := &recordingEstimator{}
	s, err := NewSweeper(est).Sweep(80e6, 82e6, 640)
	if err != nil {
		t.Fatal(err)
	}
	if len(est.calls) != 1 {
		t.Fatalf("expected 1 estimate, got %d", len(est.calls))
	}
	if c := est.calls[0]; c.center != 81e6 || c.bandwidth != 2e6 || c.detail != 640 {
		t.Fatalf("unexpected call %+v", c)
	}
	if len(s) != 1024 {
		t.Fatalf("expected 1024 bins, got %d", len(s))
	}
}

func TestSweepMultiSegment(t *testing.T) {
	est := &recordingEstimator{}
	s, err := NewSweeper(est).Sweep(80e6, 100e6, 640)
	if err != nil {
		t.Fatal(err)
	}
	if len(est.calls) != 8 {
		t.Fatalf("expected 8 estimates, got %d", len(est.calls))
	}
	for i, c := range est.calls {
		if c.bandwidth > MaxBandwidth {
			t.Errorf("segment %d bandwidth %f above limit", i, c.bandwidth)
		}
		if c.detail != 80 {
			t.Errorf("segment %d detail %d, expected 80", i, c.detail)
		}
		if i > 0 && c.center <= est.calls[i-1].center {
			t.Errorf("segment %d not ascending", i)
		}
	}
	checkSweepCoverage(t, s, 80e6, 100e6)
}

func TestSweepProperties(t *testing.T) {
	tests := []struct {
		lower, upper float64
		detail       int
	}{
		{60e6, 62.7e6, 100},
		{88e6, 108e6, 1920},
		{100e6, 102.8e6, 8},
		{430e6, 440e6, 3},
		{60e6, 1700e6, 800},
	}
	for _, tt := range tests {
		est := &recordingEstimator{}
		s, err := NewSweeper(est).Sweep(tt.lower, tt.upper, tt.detail)
		if err != nil {
			t.Fatal(err)
		}
		if n := SegmentCount(tt.upper - tt.lower); len(est.calls) != n {
			t.Fatalf("expected %d segments, got %d", n, len(est.calls))
		}
		checkSweepCoverage(t, s, tt.lower, tt.upper)
	}
}

func checkSweepCoverage(t *testing.T, s Spectrum, lower, upper float64) {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i].Freq < s[i-1].Freq {
			t.Fatalf("frequency decreases at bin %d: %f < %f", i, s[i].Freq, s[i-1].Freq)
		}
	}
	tol := math.Max(s[1].Freq-s[0].Freq, s[len(s)-1].Freq-s[len(s)-2].Freq) + 1e-3
	if math.Abs(s[0].Freq-lower) > tol {
		t.Errorf("first bin %f not within %f of %f", s[0].Freq, tol, lower)
	}
	if math.Abs(s[len(s)-1].Freq-upper) > tol {
		t.Errorf("last bin %f not within %f of %f", s[len(s)-1].Freq, tol, upper)
	}
}

func TestSweepErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewSweeper(&recordingEstimator{err: boom}).Sweep(80e6, 100e6, 64); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped estimator error, got %v", err)
	}
	if _, err := NewSweeper(&recordingEstimator{}).Sweep(100e6, 80e6, 64); err == nil {
		t.Fatal("expected error on inverted range")
	}
}

func TestSweepWithEstimator(t *testing.T) {
	est := newTestEstimator(NewSynthSDR(5, 0.01, Carrier{Freq: 95e6, Amplitude: 0.3}))
	s, err := NewSweeper(est).Sweep(90e6, 100e6, 256)
	if err != nil {
		t.Fatal(err)
	}
	checkSweepCoverage(t, s, 90e6, 100e6)
}
