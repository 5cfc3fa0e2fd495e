package usbctl

import (
	"io"

	"beacon-go/errcode"
	"beacon-go/registers"
	"beacon-go/services/control"
)

// RequestTypeVendorIn is bmRequestType for register requests: vendor,
// device recipient, device-to-host data stage.
const RequestTypeVendorIn = RequestDirectionDeviceToHost | RequestTypeVendor

// Client is the host side of the framed control channel.
type Client struct {
	rw io.ReadWriter
	w  [SetupPacketSize]byte
	r  [MaxReply]byte
}

func NewClient(rw io.ReadWriter) *Client { return &Client{rw: rw} }

// Raw sends one request and returns the reply payload (empty for a
// zero-length reply). The returned slice is only valid until the next call.
func (c *Client) Raw(kind uint8, addr, value uint16) ([]byte, error) {
	s := SetupPacket{
		RequestType: RequestTypeVendorIn,
		Request:     kind,
		Value:       value,
		Index:       addr,
		Length:      control.ResponseSize,
	}
	s.MarshalTo(c.w[:])
	if _, err := c.rw.Write(c.w[:]); err != nil {
		return nil, err
	}
	var hdr [1]byte
	if _, err := io.ReadFull(c.rw, hdr[:]); err != nil {
		return nil, err
	}
	n := int(hdr[0])
	if n > len(c.r) {
		return nil, errcode.Wrap(errcode.Error, "usbctl.Raw", errcode.OutOfRange)
	}
	if _, err := io.ReadFull(c.rw, c.r[:n]); err != nil {
		return nil, err
	}
	return c.r[:n], nil
}

func (c *Client) do(kind uint8, a registers.Address, v uint16) (control.Response, error) {
	p, err := c.Raw(kind, uint16(a), v)
	if err != nil {
		return control.Response{}, err
	}
	if len(p) == 0 {
		return control.Response{}, errcode.Unsupported
	}
	return control.ParseResponse(p)
}

// Get reads a register.
func (c *Client) Get(a registers.Address) (control.Response, error) {
	return c.do(control.KindGet, a, 0)
}

// Set writes a register.
func (c *Client) Set(a registers.Address, v uint16) (control.Response, error) {
	return c.do(control.KindSet, a, v)
}

// SetFrequency writes CLK0's frequency: low half first, then the high half
// that commits it.
func (c *Client) SetFrequency(hz uint32) error {
	for _, w := range [...]struct {
		a registers.Address
		v uint16
	}{
		{registers.AddrClk0FreqLow, uint16(hz)},
		{registers.AddrClk0FreqHigh, uint16(hz >> 16)},
	} {
		r, err := c.Set(w.a, w.v)
		if err != nil {
			return err
		}
		if r.Status != control.StatusOK {
			return &errcode.E{C: errcode.Error, Op: "usbctl.SetFrequency", Msg: "status " + r.Status.String()}
		}
	}
	return nil
}

// Frequency reads CLK0's committed frequency.
func (c *Client) Frequency() (uint32, error) {
	lo, err := c.Get(registers.AddrClk0FreqLow)
	if err != nil {
		return 0, err
	}
	hi, err := c.Get(registers.AddrClk0FreqHigh)
	if err != nil {
		return 0, err
	}
	return uint32(hi.Value)<<16 | uint32(lo.Value), nil
}
