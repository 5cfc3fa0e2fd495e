package platform

import (
	"time"
)

// byteSerial is the part of machine.Serialer the control channel needs.
type byteSerial interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// serialStream turns a polled byte serial (USB-CDC) into a blocking
// io.ReadWriter.
type serialStream struct {
	s    byteSerial
	idle time.Duration
}

func newSerialStream(s byteSerial) *serialStream {
	return &serialStream{s: s, idle: time.Millisecond}
}

// Read blocks until at least one byte is available, then returns what is
// buffered up to len(p).
func (c *serialStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for c.s.Buffered() == 0 {
		time.Sleep(c.idle)
	}
	n := 0
	for n < len(p) && c.s.Buffered() > 0 {
		b, err := c.s.ReadByte()
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (c *serialStream) Write(p []byte) (int, error) { return c.s.Write(p) }
