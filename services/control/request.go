package control

import "beacon-go/registers"

// Request kinds on the wire (bRequest). Stable wire contract.
const (
	KindGet uint8 = 0
	KindSet uint8 = 1
)

// Request is one decoded control request: Get, Set or Unsupported.
type Request interface{ isRequest() }

// Get reads a register.
type Get struct {
	Addr registers.Address
}

// Set writes Value to a register.
type Set struct {
	Addr  registers.Address
	Value uint16
}

// Unsupported carries an unrecognised request kind. It gets no response.
type Unsupported struct {
	Kind uint8
}

func (Get) isRequest()         {}
func (Set) isRequest()         {}
func (Unsupported) isRequest() {}

// Decode builds a Request from the raw request fields.
func Decode(kind uint8, addr, value uint16) Request {
	switch kind {
	case KindGet:
		return Get{Addr: registers.Address(addr)}
	case KindSet:
		return Set{Addr: registers.Address(addr), Value: value}
	default:
		return Unsupported{Kind: kind}
	}
}
