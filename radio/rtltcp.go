package radio

import (
	"encoding/binary"
	"fmt"
	"net"
)

var dongleMagic = [...]byte{'R', 'T', 'L', '0'}

// RTLTCPSDR contains dongle information and an embedded tcp connection to rtl_tcp.
type RTLTCPSDR struct {
	*net.TCPConn
	Info DongleInfo
}

// Connect dials an rtl_tcp server such as "127.0.0.1:1234" and reads the
// dongle header. The caller is responsible for closing the connection.
func (sdr *RTLTCPSDR) Connect(addr *net.TCPAddr) (err error) {
	if sdr.TCPConn, err = net.DialTCP("tcp", nil, addr); err != nil {
		return fmt.Errorf("error connecting to rtl_tcp: %w", err)
	}
	defer func() {
		if err != nil {
			sdr.Close()
		}
	}()
	if err = binary.Read(sdr.TCPConn, binary.BigEndian, &sdr.Info); err != nil {
		return fmt.Errorf("error getting dongle information: %w", err)
	}
	if !sdr.Info.Valid() {
		return fmt.Errorf("bad magic number: %q", sdr.Info.Magic)
	}
	return nil
}

// DongleInfo is the header rtl_tcp sends on connection.
type DongleInfo struct {
	Magic     [4]byte
	Tuner     uint32
	GainCount uint32
}

func (d DongleInfo) Valid() bool { return d.Magic == dongleMagic }

type command struct {
	command   uint8
	Parameter uint32
}

// Command constants defined in rtl_tcp.c
const (
	centerFreq = iota + 1
	sampleRate
	tunerGainMode
	tunerGain
	freqCorrection
	tunerIfGain
	testMode
	agcMode
)

func (sdr *RTLTCPSDR) do(cmd uint8, v uint32) error {
	return binary.Write(sdr.TCPConn, binary.BigEndian, command{cmd, v})
}

func (sdr *RTLTCPSDR) SetCenterFreq(freq uint32) error { return sdr.do(centerFreq, freq) }
func (sdr *RTLTCPSDR) SetSampleRate(rate uint32) error { return sdr.do(sampleRate, rate) }

// SetGain sets gain in tenths of dB (197 => 19.7dB); needs manual gain mode.
func (sdr *RTLTCPSDR) SetGain(gain uint32) error { return sdr.do(tunerGain, gain) }

// SetManualGain switches the tuner between manual gain and its own AGC.
func (sdr *RTLTCPSDR) SetManualGain(manual bool) error {
	if manual {
		return sdr.do(tunerGainMode, 1)
	}
	return sdr.do(tunerGainMode, 0)
}

// SetAGCMode sets the rtl2832 digital AGC, true for enabled.
func (sdr *RTLTCPSDR) SetAGCMode(state bool) error {
	if state {
		return sdr.do(agcMode, 1)
	}
	return sdr.do(agcMode, 0)
}

func (sdr *RTLTCPSDR) SetFreqCorrection(ppm uint32) error { return sdr.do(freqCorrection, ppm) }
