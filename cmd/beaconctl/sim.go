//go:build !(rp2040 || rp2350)

package main

import (
	"context"
	"io"
	"net"

	"beacon-go/bus"
	"beacon-go/internal/platform"
	"beacon-go/logsink"
	"beacon-go/services/beacon"
	"beacon-go/services/config"
)

// simDevice is an in-process beacon reached through the same framed
// control channel a real board exposes.
type simDevice struct {
	board  *platform.Sim
	bus    *bus.Bus
	beacon *beacon.Beacon
	host   net.Conn
	cancel context.CancelFunc
	done   chan error
}

func startSim(log io.Writer) (*simDevice, error) {
	cfg, err := config.Lookup("host")
	if err != nil {
		return nil, err
	}
	s := &simDevice{board: platform.Simulated(cfg), bus: bus.NewBus(32), done: make(chan error, 1)}
	config.Publish(s.bus.NewConnection("config"), cfg)

	s.beacon, err = beacon.New(cfg, beacon.Hardware{
		I2C: s.board.I2C,
		LED: s.board.LED,
		Log: logsink.NewWriter(log),
		Bus: s.bus,
	})
	if err != nil {
		s.board.Close()
		return nil, err
	}

	dev, host := net.Pipe()
	s.host = host
	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	go func() {
		s.done <- s.beacon.Serve(ctx, dev)
		dev.Close()
	}()
	return s, nil
}

// watch prints every beacon bus event to w until ctx ends.
func (s *simDevice) watch(ctx context.Context, w io.Writer) {
	conn := s.bus.NewConnection("watch")
	sub := conn.Subscribe(bus.T("beacon", "#"))
	go func() {
		defer conn.Disconnect()
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-sub.Channel():
				printEvent(w, m)
			}
		}
	}()
}

func (s *simDevice) Close() error {
	s.cancel()
	s.host.Close()
	err := <-s.done
	s.board.Close()
	return err
}
