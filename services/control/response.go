package control

import (
	"encoding/binary"

	"beacon-go/errcode"
	"beacon-go/x/conv"
)

// Status is the response status word. Stable wire contract.
type Status uint16

const (
	StatusOK    Status = 0
	StatusError Status = 1
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERROR"
	}
	var b [6]byte
	return "status(" + string(conv.Utoa(b[:], uint64(s))) + ")"
}

// StatusOf maps a model error to a wire status.
func StatusOf(err error) Status {
	if errcode.Of(err) == errcode.OK {
		return StatusOK
	}
	return StatusError
}

// ResponseSize is the encoded size of a Response.
const ResponseSize = 4

// Response is the reply to every handled request.
type Response struct {
	Value  uint16
	Status Status
}

var errorResponse = Response{Value: 0, Status: StatusError}

// MarshalTo writes value then status, little-endian, and returns the
// number of bytes written (0 if buf is too small).
func (r Response) MarshalTo(buf []byte) int {
	if len(buf) < ResponseSize {
		return 0
	}
	binary.LittleEndian.PutUint16(buf[0:2], r.Value)
	binary.LittleEndian.PutUint16(buf[2:4], uint16(r.Status))
	return ResponseSize
}

// ParseResponse decodes a reply payload.
func ParseResponse(data []byte) (Response, error) {
	if len(data) < ResponseSize {
		return Response{}, errcode.ShortPacket
	}
	return Response{
		Value:  binary.LittleEndian.Uint16(data[0:2]),
		Status: Status(binary.LittleEndian.Uint16(data[2:4])),
	}, nil
}
