package radio

import (
	"fmt"
	"math"
)

// FrequencyRange is a half-open band [Lower, Upper) in Hz.
type FrequencyRange struct {
	Lower float64 `json:"lower_hz" yaml:"lower"`
	Upper float64 `json:"upper_hz" yaml:"upper"`
}

func NewFrequencyRange(lower, upper float64) (FrequencyRange, error) {
	fr := FrequencyRange{Lower: lower, Upper: upper}
	if err := fr.Validate(); err != nil {
		return FrequencyRange{}, err
	}
	return fr, nil
}

func (fr FrequencyRange) Validate() error {
	if math.IsNaN(fr.Lower) || math.IsNaN(fr.Upper) || !(fr.Lower < fr.Upper) {
		return fmt.Errorf("invalid frequency range [%g, %g)", fr.Lower, fr.Upper)
	}
	return nil
}

func (fr FrequencyRange) Width() float64    { return fr.Upper - fr.Lower }
func (fr FrequencyRange) Center() float64   { return (fr.Upper + fr.Lower) / 2.0 }
func (fr FrequencyRange) LowerMHz() float64 { return fr.Lower / 1e6 }
func (fr FrequencyRange) UpperMHz() float64 { return fr.Upper / 1e6 }

// Segments splits the range into n equal consecutive pieces.
func (fr FrequencyRange) Segments(n int) []FrequencyRange {
	if n < 1 {
		n = 1
	}
	w := fr.Width() / float64(n)
	ret := make([]FrequencyRange, n)
	for i := range ret {
		lo := fr.Lower + float64(i)*w
		ret[i] = FrequencyRange{Lower: lo, Upper: lo + w}
	}
	// Avoid accumulated rounding on the final edge.
	ret[n-1].Upper = fr.Upper
	return ret
}

func (fr FrequencyRange) String() string {
	return fmt.Sprintf("[%0.3f,%0.3f)MHz", fr.LowerMHz(), fr.UpperMHz())
}
