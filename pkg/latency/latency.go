// Package latency simulates fixed per-operation delays in front of
// service calls, emulating a remote API over a local store.
package latency

import (
	"context"
	"time"
)

// Op names a delayed service operation.
type Op string

const (
	OpList   Op = "list"
	OpFind   Op = "find"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Simulator blocks callers for the configured duration of each operation.
// A nil or disabled Simulator never blocks.
type Simulator struct {
	delays map[Op]time.Duration
}

// New creates a Simulator from a finalized Config.
// Returns nil when simulation is disabled.
func New(cfg *Config) *Simulator {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	return &Simulator{
		delays: map[Op]time.Duration{
			OpList:   parse(cfg.List),
			OpFind:   parse(cfg.Find),
			OpCreate: parse(cfg.Create),
			OpUpdate: parse(cfg.Update),
			OpDelete: parse(cfg.Delete),
		},
	}
}

// Delay returns the configured delay for op.
func (s *Simulator) Delay(op Op) time.Duration {
	if s == nil {
		return 0
	}
	return s.delays[op]
}

// Wait blocks for the delay configured for op, or until ctx is done.
func (s *Simulator) Wait(ctx context.Context, op Op) error {
	d := s.Delay(op)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func parse(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
