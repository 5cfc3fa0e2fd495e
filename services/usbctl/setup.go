package usbctl

import (
	"encoding/binary"

	"beacon-go/errcode"
	"beacon-go/x/fmtx"
)

// Request type bits (USB 2.0 Table 9-2).
const (
	RequestTypeDirectionMask = 0x80
	RequestTypeTypeMask      = 0x60

	RequestDirectionHostToDevice = 0x00
	RequestDirectionDeviceToHost = 0x80

	RequestTypeStandard = 0x00
	RequestTypeClass    = 0x20
	RequestTypeVendor   = 0x40
)

// SetupPacketSize is the size of a USB SETUP packet in bytes.
const SetupPacketSize = 8

// SetupPacket is an 8-byte USB SETUP packet. For register requests
// bRequest is the request kind, wIndex the register address and wValue
// the value to write.
type SetupPacket struct {
	RequestType uint8  // bmRequestType
	Request     uint8  // bRequest
	Value       uint16 // wValue
	Index       uint16 // wIndex
	Length      uint16 // wLength
}

// ParseSetupPacket parses a setup packet from 8 bytes into out.
func ParseSetupPacket(data []byte, out *SetupPacket) error {
	if len(data) < SetupPacketSize {
		return errcode.ShortPacket
	}
	out.RequestType = data[0]
	out.Request = data[1]
	out.Value = binary.LittleEndian.Uint16(data[2:4])
	out.Index = binary.LittleEndian.Uint16(data[4:6])
	out.Length = binary.LittleEndian.Uint16(data[6:8])
	return nil
}

// MarshalTo serializes the setup packet to buf.
// Returns the number of bytes written (always 8 if buf is large enough).
func (s *SetupPacket) MarshalTo(buf []byte) int {
	if len(buf) < SetupPacketSize {
		return 0
	}
	buf[0] = s.RequestType
	buf[1] = s.Request
	binary.LittleEndian.PutUint16(buf[2:4], s.Value)
	binary.LittleEndian.PutUint16(buf[4:6], s.Index)
	binary.LittleEndian.PutUint16(buf[6:8], s.Length)
	return SetupPacketSize
}

func (s *SetupPacket) IsDeviceToHost() bool {
	return s.RequestType&RequestTypeDirectionMask == RequestDirectionDeviceToHost
}

func (s *SetupPacket) IsVendor() bool {
	return s.RequestType&RequestTypeTypeMask == RequestTypeVendor
}

func (s *SetupPacket) String() string {
	dir := "OUT"
	if s.IsDeviceToHost() {
		dir = "IN"
	}
	return fmtx.Sprintf("SETUP[%s type=%x] Request=%d Value=%x Index=%d Length=%d",
		dir, s.RequestType&RequestTypeTypeMask, s.Request, s.Value, s.Index, s.Length)
}
