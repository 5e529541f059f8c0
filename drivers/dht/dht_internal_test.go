package dht

import (
	"errors"
	"testing"
)

func TestChecksum(t *testing.T) {
	if got := Checksum(0x02, 0x58, 0x01, 0x0A); got != 0x65 {
		t.Fatalf("Checksum = %#x, want 0x65", got)
	}
	// Sum wraps mod 256.
	if got := Checksum(0xFF, 0xFF, 0x01, 0x00); got != 0xFF {
		t.Fatalf("Checksum = %#x, want 0xff", got)
	}
}

func TestDecodeDHT11(t *testing.T) {
	buf := [frameLen]byte{45, 0, 26, 0, 71}
	h, temp := decodeDHT11(&buf)
	if h != 45.0 || temp != 26.0 {
		t.Fatalf("decode = %v/%v, want 45.0/26.0", h, temp)
	}
	// Fractional bytes are carried in the frame but ignored.
	buf[1], buf[3] = 9, 9
	if h, temp = decodeDHT11(&buf); h != 45.0 || temp != 26.0 {
		t.Fatalf("decode with fractional bytes = %v/%v, want 45.0/26.0", h, temp)
	}
}

func TestDecodeDHT22(t *testing.T) {
	buf := [frameLen]byte{0x02, 0x58, 0x01, 0x0A, 0x65}
	h, temp := decodeDHT22(&buf)
	if h != 60.0 || temp != 26.6 {
		t.Fatalf("decode = %v/%v, want 60.0/26.6", h, temp)
	}

	// Sign-magnitude, not two's complement: 0x81 0x0A is -26.6, and
	// 0x80 0x00 is negative zero, not -3276.8.
	buf[2] = 0x81
	if _, temp = decodeDHT22(&buf); temp != -26.6 {
		t.Fatalf("decode = %v, want -26.6", temp)
	}
	buf = [frameLen]byte{0, 0, 0x80, 0, 0}
	if _, temp = decodeDHT22(&buf); temp != 0 {
		t.Fatalf("decode of sign-only magnitude = %v, want 0", temp)
	}
}

// scriptPin replays a fixed level sequence, used to pin down the
// level-wait contract without the full waveform machinery.
type scriptPin struct {
	levels []bool
	errAt  int // 1-indexed call that fails; 0 = never
	calls  int
}

func (p *scriptPin) SetLevel(bool) error { return nil }

func (p *scriptPin) Level() (bool, error) {
	p.calls++
	if p.errAt > 0 && p.calls >= p.errAt {
		return false, errors.New("hw")
	}
	i := p.calls - 1
	if i >= len(p.levels) {
		i = len(p.levels) - 1
	}
	return p.levels[i], nil
}

type noDelay struct{ ticks uint32 }

func (d *noDelay) DelayUs(us uint32) { d.ticks += us }

func TestWaitForLevel(t *testing.T) {
	sentinel := errors.New("late")

	t.Run("first poll matches", func(t *testing.T) {
		d := &Device{pin: &scriptPin{levels: []bool{true}}, delay: &noDelay{}}
		elapsed, err := d.waitForLevel(true, 10, sentinel)
		if err != nil || elapsed != 0 {
			t.Fatalf("got (%d, %v), want (0, nil)", elapsed, err)
		}
	})

	t.Run("elapsed counts delay ticks", func(t *testing.T) {
		nd := &noDelay{}
		d := &Device{pin: &scriptPin{levels: []bool{false, false, false, true}}, delay: nd}
		elapsed, err := d.waitForLevel(true, 10, sentinel)
		if err != nil || elapsed != 3 {
			t.Fatalf("got (%d, %v), want (3, nil)", elapsed, err)
		}
		if nd.ticks != 3 {
			t.Fatalf("delayed %d ticks, want 3", nd.ticks)
		}
	})

	t.Run("bound is inclusive", func(t *testing.T) {
		levels := make([]bool, 11)
		levels[10] = true
		d := &Device{pin: &scriptPin{levels: levels}, delay: &noDelay{}}
		elapsed, err := d.waitForLevel(true, 10, sentinel)
		if err != nil || elapsed != 10 {
			t.Fatalf("got (%d, %v), want (10, nil)", elapsed, err)
		}
	})

	t.Run("timeout returns the supplied error", func(t *testing.T) {
		d := &Device{pin: &scriptPin{levels: []bool{false}}, delay: &noDelay{}}
		if _, err := d.waitForLevel(true, 10, sentinel); !errors.Is(err, sentinel) {
			t.Fatalf("err = %v, want sentinel", err)
		}
	})

	t.Run("pin failure aborts immediately", func(t *testing.T) {
		d := &Device{pin: &scriptPin{levels: []bool{false}, errAt: 3}, delay: &noDelay{}}
		_, err := d.waitForLevel(true, 100, sentinel)
		var perr *PinError
		if !errors.As(err, &perr) {
			t.Fatalf("err = %v, want PinError", err)
		}
	})
}
