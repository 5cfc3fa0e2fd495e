package platform

import (
	"sync/atomic"
	"time"

	"beacon-go/errcode"

	"tinygo.org/x/drivers"
)

// i2cReq owns its buffers: a caller that times out may reuse its own
// slices while the request is still queued or on the bus.
type i2cReq struct {
	addr      uint16
	w, r      []byte
	done      chan error // buffered(1); worker replies best-effort
	abandoned atomic.Bool
}

// I2COwner serialises every transaction on one bus through a single
// worker goroutine.
type I2COwner struct {
	hw   drivers.I2C
	reqs chan *i2cReq
	quit chan struct{}
}

func NewI2COwner(hw drivers.I2C) *I2COwner {
	o := &I2COwner{
		hw:   hw,
		reqs: make(chan *i2cReq, 16),
		quit: make(chan struct{}),
	}
	go o.loop()
	return o
}

func (o *I2COwner) loop() {
	for {
		select {
		case req := <-o.reqs:
			if req.abandoned.Load() {
				continue
			}
			err := o.hw.Tx(req.addr, req.w, req.r)
			// best-effort reply; do not block the worker
			select {
			case req.done <- err:
			default:
			}
		case <-o.quit:
			return
		}
	}
}

// Close stops the worker. Pending callers time out.
func (o *I2COwner) Close() { close(o.quit) }

// Bus returns a drivers.I2C view of the owner. A positive timeout bounds
// both enqueue and completion. A timed-out request that has not reached
// the bus is dropped; one already on the bus completes from its own copy
// of the write bytes and its read result is discarded.
func (o *I2COwner) Bus(timeout time.Duration) drivers.I2C {
	return &ownedI2C{o: o, timeout: timeout}
}

type ownedI2C struct {
	o       *I2COwner
	timeout time.Duration // 0 => no deadline
}

var _ drivers.I2C = (*ownedI2C)(nil)

func (d *ownedI2C) Tx(addr uint16, w, r []byte) error {
	req := &i2cReq{
		addr: addr,
		w:    append([]byte(nil), w...),
		done: make(chan error, 1),
	}
	if len(r) > 0 {
		req.r = make([]byte, len(r))
	}

	if d.timeout <= 0 {
		d.o.reqs <- req
		return req.finish(r, <-req.done)
	}

	t := time.NewTimer(d.timeout)
	defer t.Stop()
	select {
	case d.o.reqs <- req:
	case <-t.C:
		return errcode.Wrap(errcode.Timeout, "i2c.Tx", nil)
	}
	select {
	case err := <-req.done:
		return req.finish(r, err)
	case <-t.C:
		req.abandoned.Store(true)
		return errcode.Wrap(errcode.Timeout, "i2c.Tx", nil)
	}
}

// finish hands the read bytes back to the caller once the worker is done
// with them.
func (req *i2cReq) finish(r []byte, err error) error {
	if err == nil {
		copy(r, req.r)
	}
	return err
}
