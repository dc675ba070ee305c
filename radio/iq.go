package radio

import (
	"errors"
	"io"
)

// DecodeIQ8 converts interleaved u8 I/Q pairs into complex samples.
func DecodeIQ8(iq8 []byte, samps []complex64) int {
	n := len(iq8) / 2
	if n > len(samps) {
		n = len(samps)
	}
	for i := 0; i < n; i++ {
		samps[i] = complex(
			(float32(iq8[2*i])-127)/128.0,
			(float32(iq8[2*i+1])-127)/128.0)
	}
	return n
}

// IQReader reads fixed size sample blocks from a u8 I/Q stream.
type IQReader struct {
	r     io.Reader
	iq8   []byte
	total uint64
}

// NewIQReader takes a reader that uses u8 I/Q samples.
func NewIQReader(r io.Reader) *IQReader {
	if r == nil {
		panic("nil reader")
	}
	return &IQReader{r: r}
}

// ReadSamples returns exactly n samples. A stream that ends early yields
// ErrShortRead wrapped in an AcquisitionError.
func (iq *IQReader) ReadSamples(n int) ([]complex64, error) {
	if cap(iq.iq8) < 2*n {
		iq.iq8 = make([]byte, 2*n)
	}
	buf := iq.iq8[:2*n]
	got, err := io.ReadFull(iq.r, buf)
	iq.total += uint64(got / 2)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, newAcqError(ErrShortRead, "read samples", err)
		}
		return nil, newAcqError(ErrDeviceUnavailable, "read samples", err)
	}
	samps := make([]complex64, n)
	DecodeIQ8(buf, samps)
	return samps, nil
}

// Total is the number of samples consumed so far.
func (iq *IQReader) Total() uint64 { return iq.total }
