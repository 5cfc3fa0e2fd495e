// Package heartbeat writes a periodic status line to the console and
// surfaces synthesizer faults published on the bus.
package heartbeat

import (
	"context"
	"time"

	"beacon-go/bus"
	"beacon-go/logsink"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat_s")
	topicFaults          = bus.T("beacon", "fault", "+")
)

type Service struct {
	Interval time.Duration // initial period; config/heartbeat_s overrides it
	Log      logsink.Sink
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	faultSub := conn.Subscribe(topicFaults)
	defer conn.Unsubscribe(faultSub)

	// A stopped ticker stands in for "disabled".
	tick := time.NewTicker(time.Hour)
	defer tick.Stop()
	s.reset(tick, s.Interval)

	faults := 0
	for {
		select {
		case <-ctx.Done():
			logsink.Printf(s.Log, "Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			logsink.Printf(s.Log, "Info: %s Heartbeat, %d faults", t.Format("15:04:05"), faults)
		case msg := <-faultSub.Channel():
			if msg.Payload == nil {
				continue
			}
			faults++
			if e, ok := msg.Payload.(string); ok {
				logsink.Printf(s.Log, "Warn: %s: %s", msg.Topic.String(), e)
			}
		case msg := <-cfgSub.Channel():
			if secs, ok := msg.Payload.(uint32); ok {
				s.reset(tick, time.Duration(secs)*time.Second)
				logsink.Printf(s.Log, "Info: heartbeat interval set to %d seconds", secs)
			}
		}
	}
}

func (s *Service) reset(tick *time.Ticker, d time.Duration) {
	if d <= 0 {
		tick.Stop()
		return
	}
	tick.Reset(d)
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
