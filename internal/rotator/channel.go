package rotator

// Channel is a line-oriented duplex link to the pointing device. It is a
// single exclusively-owned resource: opened once at startup, used from
// one goroutine, closed at process end.
type Channel interface {
	// WriteLine writes one outbound message verbatim, terminator
	// included.
	WriteLine(line string) error

	// ReadLine returns the next reply line with surrounding whitespace
	// and the terminator stripped. ok is false when nothing arrived
	// before the channel's read timeout; err reports transport-level
	// failures only.
	ReadLine() (line string, ok bool, err error)

	Close() error
}
