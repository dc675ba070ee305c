package radio

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecodeIQ8(t *testing.T) {
	samps := make([]complex64, 3)
	n := DecodeIQ8([]byte{127, 127, 255, 0, 0, 255}, samps)
	if n != 3 {
		t.Fatalf("expected 3 samples, got %d", n)
	}
	expected := []complex64{0, complex(1, -127.0/128.0), complex(-127.0/128.0, 1)}
	for i := range expected {
		if samps[i] != expected[i] {
			t.Errorf("sample %d: expected %v, got %v", i, expected[i], samps[i])
		}
	}
}

func TestIQReaderShortRead(t *testing.T) {
	iqr := NewIQReader(bytes.NewReader(make([]byte, 10)))
	if _, err := iqr.ReadSamples(4); err != nil {
		t.Fatal(err)
	}
	if _, err := iqr.ReadSamples(4); !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected short read, got %v", err)
	}
	if iqr.Total() != 5 {
		t.Fatalf("expected 5 samples consumed, got %d", iqr.Total())
	}
}
