package usbctl

import (
	"context"
	"errors"
	"io"

	"beacon-go/errcode"
)

// MaxReply bounds a reply payload (EP0 max packet size).
const MaxReply = 64

// Endpoint serves SETUP packets arriving over a byte stream (USB-CDC
// serial on the board, a pipe or file on a host). A request frame is the
// 8 SETUP bytes; a reply frame is one length byte followed by the payload.
type Endpoint struct {
	rw  io.ReadWriter
	h   Handler
	in  [SetupPacketSize]byte
	out [1 + MaxReply]byte
}

func NewEndpoint(rw io.ReadWriter, h Handler) *Endpoint {
	return &Endpoint{rw: rw, h: h}
}

// Poll reads one request frame, handles it and writes the reply frame.
func (e *Endpoint) Poll() error {
	if _, err := io.ReadFull(e.rw, e.in[:]); err != nil {
		return err
	}
	reply := e.h.HandleSetup(e.in[:])
	if len(reply) > MaxReply {
		reply = reply[:MaxReply]
	}
	e.out[0] = byte(len(reply))
	n := copy(e.out[1:], reply)
	_, err := e.rw.Write(e.out[:1+n])
	return err
}

// Serve polls until ctx is cancelled or the stream ends. A clean end of
// stream returns nil. ctx is checked between frames only: a read blocked
// on rw is not interrupted, so callers that must stop promptly close rw.
func (e *Endpoint) Serve(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := e.Poll()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return errcode.Wrap(errcode.ShortPacket, "usbctl.Serve", err)
		}
		if err != nil {
			return err
		}
	}
}
