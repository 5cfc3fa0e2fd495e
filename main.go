package main

import (
	"context"
	"time"

	"beacon-go/bus"
	"beacon-go/internal/platform"
	"beacon-go/logsink"
	"beacon-go/services/beacon"
	"beacon-go/services/config"
	"beacon-go/services/heartbeat"
)

func main() {
	// Allow USB CDC to enumerate before the control channel opens.
	time.Sleep(platform.StartupDelay)

	cfg, err := config.Lookup(platform.BoardName)
	if err != nil {
		panic(err)
	}
	board, err := platform.Open(cfg)
	if err != nil {
		panic(err)
	}
	log := logsink.NewSerial(board.Console)

	ctx := context.Background()
	b := bus.NewBus(8)
	config.Publish(b.NewConnection("config"), cfg)

	hb := &heartbeat.Service{Interval: time.Duration(cfg.HeartbeatSeconds) * time.Second, Log: log}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	bcn, err := beacon.New(cfg, beacon.Hardware{I2C: board.I2C, LED: board.LED, Log: log, Bus: b})
	if err != nil {
		logsink.Printf(log, "Warn: boot: %s", err.Error())
		select {}
	}

	logsink.Printf(log, "Info: control channel ready")
	for {
		err := bcn.Serve(ctx, board.Control)
		if err == nil {
			// Only a host stream ends; USB-CDC never reports EOF.
			logsink.Printf(log, "Info: control channel closed")
			return
		}
		logsink.Printf(log, "Warn: control channel: %s", err.Error())
		time.Sleep(100 * time.Millisecond)
	}
}
