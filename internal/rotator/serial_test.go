package rotator

import (
	"errors"
	"io"
	"testing"
	"time"
)

// fakePort scripts Read results the way a UART with a read timeout
// delivers them: chunks of bytes, empty reads for timeouts, errors for
// transport failures.
type fakePort struct {
	reads    [][]byte // one entry per Read call; empty slice = timeout
	readErr  error    // returned after reads are exhausted
	written  []byte
	writeErr error
	closed   bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	if len(f.reads) == 0 {
		if f.readErr != nil {
			return 0, f.readErr
		}
		return 0, nil // timeout
	}
	chunk := f.reads[0]
	f.reads = f.reads[1:]
	return copy(p, chunk), nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.written = append(f.written, p...)
	return len(p), nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func (f *fakePort) SetReadTimeout(time.Duration) error { return nil }
func (f *fakePort) ResetInputBuffer() error            { return nil }

func TestSerialPort_ReadLine(t *testing.T) {
	tests := []struct {
		name     string
		reads    [][]byte
		wantLine string
		wantOK   bool
	}{
		{
			name:     "single read",
			reads:    [][]byte{[]byte("HOME_OK\n")},
			wantLine: "HOME_OK",
			wantOK:   true,
		},
		{
			name:     "split across reads",
			reads:    [][]byte{[]byte("HOME"), []byte("_OK\r\n")},
			wantLine: "HOME_OK",
			wantOK:   true,
		},
		{
			name:     "carriage return stripped",
			reads:    [][]byte{[]byte("12.3,45.6,7.8,1\r\n")},
			wantLine: "12.3,45.6,7.8,1",
			wantOK:   true,
		},
		{
			name:   "timeout with nothing buffered",
			reads:  nil,
			wantOK: false,
		},
		{
			name:     "partial line flushed on timeout",
			reads:    [][]byte{[]byte("HOME_")},
			wantLine: "HOME_",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &SerialPort{port: &fakePort{reads: tt.reads}}
			line, ok, err := s.ReadLine()
			if err != nil {
				t.Fatalf("ReadLine returned error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ReadLine ok = %v, want %v", ok, tt.wantOK)
			}
			if line != tt.wantLine {
				t.Errorf("ReadLine = %q, want %q", line, tt.wantLine)
			}
		})
	}
}

func TestSerialPort_ReadLine_MultipleBuffered(t *testing.T) {
	s := &SerialPort{port: &fakePort{reads: [][]byte{[]byte("first\nsecond\n")}}}

	line, ok, err := s.ReadLine()
	if err != nil || !ok || line != "first" {
		t.Fatalf("first ReadLine = (%q, %v, %v)", line, ok, err)
	}

	// The second line must come from the buffer without another Read.
	line, ok, err = s.ReadLine()
	if err != nil || !ok || line != "second" {
		t.Fatalf("second ReadLine = (%q, %v, %v)", line, ok, err)
	}
}

func TestSerialPort_ReadLine_TransportError(t *testing.T) {
	s := &SerialPort{port: &fakePort{readErr: errors.New("device unplugged")}}

	_, ok, err := s.ReadLine()
	if err == nil {
		t.Fatal("expected transport error")
	}
	if ok {
		t.Error("ok must be false on transport error")
	}
}

func TestSerialPort_WriteLine(t *testing.T) {
	port := &fakePort{}
	s := &SerialPort{port: port}

	if err := s.WriteLine("40.0,-75.0,0,HOME\n"); err != nil {
		t.Fatalf("WriteLine returned error: %v", err)
	}
	if got := string(port.written); got != "40.0,-75.0,0,HOME\n" {
		t.Errorf("written %q", got)
	}

	s = &SerialPort{port: &fakePort{writeErr: io.ErrClosedPipe}}
	if err := s.WriteLine("x\n"); err == nil {
		t.Error("expected write error")
	}
}

func TestSerialPort_Close(t *testing.T) {
	port := &fakePort{}
	s := &SerialPort{port: port}

	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !port.closed {
		t.Error("underlying port not closed")
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := Config{Port: "/dev/ttyACM0"}.withDefaults()

	if c.BaudRate != DefaultBaudRate {
		t.Errorf("BaudRate = %d, want %d", c.BaudRate, DefaultBaudRate)
	}
	if c.ReadTimeout != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", c.ReadTimeout, DefaultReadTimeout)
	}
	if c.SettleDelay != DefaultSettleDelay {
		t.Errorf("SettleDelay = %v, want %v", c.SettleDelay, DefaultSettleDelay)
	}

	// Explicit values survive.
	c = Config{Port: "COM3", BaudRate: 115200, ReadTimeout: 5 * time.Second, SettleDelay: time.Second}.withDefaults()
	if c.BaudRate != 115200 || c.ReadTimeout != 5*time.Second || c.SettleDelay != time.Second {
		t.Errorf("explicit config overwritten: %+v", c)
	}
}
