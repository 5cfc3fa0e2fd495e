// Package control implements the register dispatch protocol: it turns a
// decoded control request into a register model read or write, the
// matching synthesizer side effects and diagnostics, and exactly one
// Response (or none, for unsupported request kinds).
package control

import (
	"beacon-go/bus"
	"beacon-go/logsink"
	"beacon-go/registers"
	"beacon-go/x/fmtx"
	"beacon-go/x/mathx"
)

// Topic prefix for register state published after every accepted write.
const (
	TokBeacon = "beacon"
	TokReg    = "reg"
	TokFault  = "fault"
)

// RegTopic is the retained topic carrying a register's last written value.
func RegTopic(r registers.Register) bus.Topic { return bus.T(TokBeacon, TokReg, r.Name) }

// Dispatcher is stateless per call; all device state lives in the
// registers.Model passed to Dispatch.
type Dispatcher struct {
	sink logsink.Sink
	conn *bus.Connection
}

type Option func(*Dispatcher)

// WithBus publishes accepted writes and synthesizer faults on conn.
func WithBus(conn *bus.Connection) Option {
	return func(d *Dispatcher) { d.conn = conn }
}

// New returns a dispatcher writing diagnostics to sink (nil discards).
func New(sink logsink.Sink, opts ...Option) *Dispatcher {
	if sink == nil {
		sink = logsink.Discard
	}
	d := &Dispatcher{sink: sink}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch executes req against m. handled is false only for Unsupported
// requests; the transport must then send no payload.
func (d *Dispatcher) Dispatch(m *registers.Model, req Request) (resp Response, handled bool) {
	switch r := req.(type) {
	case Get:
		v, err := m.Get(r.Addr)
		if StatusOf(err) != StatusOK {
			return errorResponse, true
		}
		return Response{Value: v, Status: StatusOK}, true

	case Set:
		v, err := m.Set(r.Addr, r.Value)
		if StatusOf(err) != StatusOK {
			return errorResponse, true
		}
		reg, _ := registers.Lookup(r.Addr)
		d.describe(m.State(), reg)
		d.publish(RegTopic(reg), v)
		return Response{Value: v, Status: StatusOK}, true
	}
	return Response{}, false
}

// Fault reports a synthesizer error raised while a write was applied.
// It has the registers.FaultFunc signature.
func (d *Dispatcher) Fault(r registers.Register, err error) {
	logsink.Printf(d.sink, "Synthesizer error on %s: %s", r.Name, err.Error())
	d.publish(bus.T(TokBeacon, TokFault, r.Name), err.Error())
}

// describe writes the diagnostic line for an accepted write.
func (d *Dispatcher) describe(st registers.State, reg registers.Register) {
	out := st.Outputs[reg.Channel]
	switch reg.Field {
	case registers.FieldLED:
		if st.LED {
			d.sink.WriteLine("LED on")
		} else {
			d.sink.WriteLine("LED off")
		}
	case registers.FieldFreqHigh:
		logsink.Printf(d.sink, "Setting frequency to %d Hz", out.Frequency)
	case registers.FieldEnable:
		if out.Enabled {
			d.sink.WriteLine("Output enabled")
		} else {
			d.sink.WriteLine("Output disabled")
		}
	case registers.FieldDrive:
		logsink.Printf(d.sink, "Setting drive strength to %d mA", registers.DriveMilliAmps(out.Drive))
	case registers.FieldCorrection:
		logsink.Printf(d.sink, "Setting frequency correction to %s ppm", FormatTenths(st.Correction))
	}
}

func (d *Dispatcher) publish(t bus.Topic, payload any) {
	if d.conn == nil {
		return
	}
	d.conn.Publish(&bus.Message{Topic: t, Payload: payload, Retained: true})
}

// FormatTenths renders a tenths-of-a-unit value as a decimal, e.g. -15 as "-1.5".
func FormatTenths(v int16) string {
	n := int32(v)
	sign := ""
	if n < 0 {
		sign = "-"
	}
	a := mathx.Abs(n)
	return fmtx.Sprintf("%s%d.%d", sign, a/10, a%10)
}
