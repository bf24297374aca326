package navigation

import (
	"context"
	"time"
)

const (
	// DefaultSettleDelay is the fixed wait between asking a section to open
	// and measuring its position.
	DefaultSettleDelay = 150 * time.Millisecond
	// DefaultSettlePoll is the sampling interval of StableSettler.
	DefaultSettlePoll = 16 * time.Millisecond
	// DefaultSettleMaxWait bounds how long StableSettler waits.
	DefaultSettleMaxWait = 500 * time.Millisecond
)

// Sleeper waits for a duration or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper sleeps on a real timer.
type TimerSleeper struct{}

// Sleep implements Sleeper.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Settler waits until the layout around a freshly opened section can be
// measured. It returns an error only when ctx is done.
type Settler interface {
	Settle(ctx context.Context, sectionID string) error
}

// FixedSettler waits a fixed delay.
type FixedSettler struct {
	Delay   time.Duration
	Sleeper Sleeper
}

// Settle implements Settler.
func (s FixedSettler) Settle(ctx context.Context, _ string) error {
	return sleeperOrDefault(s.Sleeper).Sleep(ctx, s.Delay)
}

// PositionReader reports section positions.
type PositionReader interface {
	ElementTop(id string) (float64, bool)
}

// StableSettler samples the section's top offset every Poll and returns once
// two consecutive samples agree, or after MaxWait.
type StableSettler struct {
	Positions PositionReader
	Poll      time.Duration
	MaxWait   time.Duration
	Sleeper   Sleeper
}

// Settle implements Settler.
func (s StableSettler) Settle(ctx context.Context, sectionID string) error {
	sleeper := sleeperOrDefault(s.Sleeper)
	poll := s.Poll
	if poll <= 0 {
		poll = DefaultSettlePoll
	}

	var (
		last    float64
		hasLast bool
	)
	for waited := time.Duration(0); waited < s.MaxWait; waited += poll {
		if err := sleeper.Sleep(ctx, poll); err != nil {
			return err
		}
		top, ok := s.Positions.ElementTop(sectionID)
		if ok && hasLast && top == last {
			return nil
		}
		last, hasLast = top, ok
	}
	return nil
}

func sleeperOrDefault(s Sleeper) Sleeper {
	if s == nil {
		return TimerSleeper{}
	}
	return s
}

// SettleMode names a settling strategy in configuration.
type SettleMode string

const (
	SettleFixed  SettleMode = "fixed"
	SettleStable SettleMode = "stable"
)

// SettleOptions configures NewSettler.
type SettleOptions struct {
	Mode    SettleMode
	Delay   time.Duration
	Poll    time.Duration
	MaxWait time.Duration
	Sleeper Sleeper
}

// NewSettler builds the Settler for opts.Mode. Positions is only consulted
// by the stable mode. Unknown modes fall back to a fixed delay.
func NewSettler(opts SettleOptions, positions PositionReader) Settler {
	if opts.Mode == SettleStable && positions != nil {
		return StableSettler{
			Positions: positions,
			Poll:      opts.Poll,
			MaxWait:   opts.MaxWait,
			Sleeper:   opts.Sleeper,
		}
	}
	return FixedSettler{Delay: opts.Delay, Sleeper: opts.Sleeper}
}
