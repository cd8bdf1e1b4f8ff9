package application

import (
	"context"
	"net"
	"time"

	"scmpc/internal/config"
)

// Probe is the default Poller. It only checks that the MPD port accepts TCP
// connections within the configured timeout.
type Probe struct {
	address string
	timeout time.Duration
}

// NewProbe builds a Probe for the given connection settings.
func NewProbe(m config.MPD) *Probe {
	return &Probe{
		address: m.Address(),
		timeout: m.DialTimeout(),
	}
}

// Poll dials MPD once.
func (p *Probe) Poll(ctx context.Context) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return err
	}
	return conn.Close()
}
