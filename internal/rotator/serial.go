package rotator

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the rotator firmware's UART speed.
	DefaultBaudRate = 9600

	// DefaultReadTimeout bounds how long a reply is waited for.
	DefaultReadTimeout = time.Second

	// DefaultSettleDelay is how long the device is given to boot after
	// the port opens. Opening the port resets the microcontroller.
	DefaultSettleDelay = 2 * time.Second
)

// Config describes the serial link to the device.
type Config struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
	SettleDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	return c
}

// serialPort is the slice of go.bug.st/serial.Port this package uses.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

var _ serialPort = (serial.Port)(nil)

// SerialPort is the Channel implementation over a real UART.
type SerialPort struct {
	port    serialPort
	pending []byte
}

var _ Channel = (*SerialPort)(nil)

// Open opens the configured port, waits out the device's boot settle
// delay and discards whatever the firmware printed while booting.
func Open(cfg Config) (*SerialPort, error) {
	cfg = cfg.withDefaults()
	if cfg.Port == "" {
		return nil, fmt.Errorf("rotator: no serial port configured")
	}

	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Port, err)
	}

	if err = port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("setting read timeout: %w", err)
	}

	time.Sleep(cfg.SettleDelay)

	if err = port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("flushing input buffer: %w", err)
	}

	return &SerialPort{port: port}, nil
}

// ListPorts enumerates serial ports present on the host. Used for the
// startup diagnostic when the configured port cannot be opened.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

// WriteLine writes the message bytes verbatim.
func (s *SerialPort) WriteLine(line string) error {
	n, err := s.port.Write([]byte(line))
	if err != nil {
		return fmt.Errorf("writing to device: %w", err)
	}
	if n < len(line) {
		return fmt.Errorf("writing to device: %w", io.ErrShortWrite)
	}
	return nil
}

// ReadLine assembles the next newline-terminated reply. A timeout with
// nothing buffered reports no line; a timeout with a partial line returns
// the partial so truncated replies surface upstream.
func (s *SerialPort) ReadLine() (string, bool, error) {
	var buf [64]byte
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := strings.TrimSpace(string(s.pending[:i]))
			s.pending = append(s.pending[:0], s.pending[i+1:]...)
			return line, true, nil
		}

		n, err := s.port.Read(buf[:])
		if err != nil {
			return "", false, fmt.Errorf("reading from device: %w", err)
		}
		if n == 0 { // read timeout expired
			if len(s.pending) == 0 {
				return "", false, nil
			}
			line := strings.TrimSpace(string(s.pending))
			s.pending = s.pending[:0]
			return line, true, nil
		}

		s.pending = append(s.pending, buf[:n]...)
	}
}

func (s *SerialPort) Close() error {
	return s.port.Close()
}
