package radio

import (
	"fmt"
	"math"
)

// Sweeper stitches several hardware-limited acquisitions into one wide spectrum.
type Sweeper struct {
	est SpectrumEstimator
}

func NewSweeper(est SpectrumEstimator) *Sweeper { return &Sweeper{est: est} }

// SegmentCount is how many acquisitions a band of the given width needs.
func SegmentCount(width float64) int {
	if width < MaxBandwidth {
		return 1
	}
	return int(math.Ceil(width / MaxBandwidth))
}

// Sweep returns a spectrum covering [lower, upper) with roughly targetDetail
// bins. Wide ranges are cut into equal segments no wider than MaxBandwidth;
// their spectra are concatenated as is, without resampling or merging edges.
func (sw *Sweeper) Sweep(lower, upper float64, targetDetail int) (Spectrum, error) {
	fr, err := NewFrequencyRange(lower, upper)
	if err != nil {
		return nil, err
	}
	if fr.Width() < MaxBandwidth {
		return sw.est.Estimate(fr.Center(), fr.Width(), targetDetail)
	}

	n := SegmentCount(fr.Width())
	detail := targetDetail / n
	if detail < MinDetail {
		detail = MinDetail
	}
	ret := make(Spectrum, 0, n*Detail(detail))
	for _, seg := range fr.Segments(n) {
		s, err := sw.est.Estimate(seg.Center(), seg.Width(), detail)
		if err != nil {
			return nil, fmt.Errorf("sweep segment %v: %w", seg, err)
		}
		ret = append(ret, s...)
	}
	return ret, nil
}
