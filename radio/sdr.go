package radio

import (
	"errors"
	"fmt"
)

// Hardware limits of the rtl2832u/r820t receivers this tool targets.
const (
	MinTunableHz = 60e6
	MaxTunableHz = 1700e6
	MaxBandwidth = 2.8e6
)

var ErrRateOutOfRange = errors.New("sample rate out of range")
var ErrFrequencyOutOfRange = errors.New("frequency out of range")

var (
	ErrDeviceUnavailable = errors.New("device unavailable")
	ErrDeviceBusy        = errors.New("device busy")
	ErrShortRead         = errors.New("short read")
)

// Device is the tuner collaborator: a single swept receiver with fixed gain.
type Device interface {
	SetCenterFreq(hz uint32) error
	SetSampleRate(hz uint32) error
	// ReadSamples blocks until n samples are read or the device fails.
	ReadSamples(n int) ([]complex64, error)
	Close() error
}

// AcquisitionError reports a hardware failure while acquiring samples.
// Callers treat it as transient and skip the tick it happened in.
type AcquisitionError struct {
	Kind error
	Op   string
	Err  error
}

func (e *AcquisitionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *AcquisitionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newAcqError(kind error, op string, err error) *AcquisitionError {
	return &AcquisitionError{Kind: kind, Op: op, Err: err}
}

// IsAcquisitionError reports whether err stems from the receiver rather than the program.
func IsAcquisitionError(err error) bool {
	var ae *AcquisitionError
	return errors.As(err, &ae)
}
