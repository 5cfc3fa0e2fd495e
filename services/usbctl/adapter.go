// Package usbctl is the transport side of the register protocol: it turns
// USB control SETUP packets into control requests and response records
// into reply payloads, and carries both over a framed byte stream when no
// native control endpoint is available.
package usbctl

import (
	"beacon-go/registers"
	"beacon-go/services/control"
)

// Handler answers one SETUP packet. An empty reply means a zero-length
// status stage.
type Handler interface {
	HandleSetup(setup []byte) []byte
}

// Adapter binds a dispatcher to the register model it serves.
type Adapter struct {
	disp *control.Dispatcher
	regs *registers.Model
	buf  [control.ResponseSize]byte
}

func NewAdapter(d *control.Dispatcher, m *registers.Model) *Adapter {
	return &Adapter{disp: d, regs: m}
}

// HandleSetup parses a raw SETUP packet and dispatches it. Malformed
// packets and unsupported request kinds get a zero-length reply. The
// returned slice is only valid until the next call.
func (a *Adapter) HandleSetup(data []byte) []byte {
	var s SetupPacket
	if err := ParseSetupPacket(data, &s); err != nil {
		return a.buf[:0]
	}
	return a.Handle(&s)
}

// Handle dispatches a parsed SETUP packet. The reply never exceeds wLength.
func (a *Adapter) Handle(s *SetupPacket) []byte {
	resp, ok := a.disp.Dispatch(a.regs, control.Decode(s.Request, s.Index, s.Value))
	if !ok {
		return a.buf[:0]
	}
	n := resp.MarshalTo(a.buf[:])
	if int(s.Length) < n {
		n = int(s.Length)
	}
	return a.buf[:n]
}
