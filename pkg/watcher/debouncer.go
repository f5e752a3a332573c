package watcher

import (
	"context"
	"time"

	"github.com/ritzau/circuit-workbench/pkg/logging"
)

// Debouncer collapses bursts of file change events into one. Editors often
// issue several writes per save; reloading once after the burst settles is
// enough.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer wraps the input channel. An event is emitted after
// quietPeriod without further input, or after maxWait of continuous
// activity, whichever comes first.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 4),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins debouncing until ctx is cancelled.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// Events returns the debounced output channel.
func (d *Debouncer) Events() <-chan ChangeEvent {
	return d.output
}

func (d *Debouncer) run(ctx context.Context) {
	var (
		pending  *ChangeEvent
		quiet    *time.Timer
		deadline *time.Timer
	)

	quietC := func() <-chan time.Time {
		if quiet == nil {
			return nil
		}
		return quiet.C
	}
	deadlineC := func() <-chan time.Time {
		if deadline == nil {
			return nil
		}
		return deadline.C
	}

	flush := func() {
		if pending == nil {
			return
		}
		logging.Debug("flushing debounced change", "path", pending.Path)
		d.output <- *pending
		pending = nil
		if quiet != nil {
			quiet.Stop()
			quiet = nil
		}
		if deadline != nil {
			deadline.Stop()
			deadline = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}
			pending = &event
			if quiet != nil {
				quiet.Stop()
			}
			quiet = time.NewTimer(d.quietPeriod)
			if deadline == nil {
				deadline = time.NewTimer(d.maxWait)
			}

		case <-quietC():
			flush()

		case <-deadlineC():
			flush()
		}
	}
}
