// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import (
	"context"
	"time"
)

// A Clock is the bench's monotonic tick source. With a zero interval the
// clock is purely logical: WaitTick yields a new tick immediately. With a
// positive interval WaitTick blocks until the next real time tick boundary.
//
// A Clock is owned by the run loop; its methods must not be called
// concurrently.
//
type Clock struct {
	interval time.Duration
	ticks    uint64
}

// NewClock returns a clock advancing one tick per interval. An interval of
// zero makes the clock free running.
//
func NewClock(interval time.Duration) *Clock {
	return &Clock{interval: interval}
}

// WaitTick blocks until the next tick boundary and returns the new tick
// index. Ticks are numbered from 1. WaitTick returns early with the
// context's error when ctx is cancelled.
//
func (c *Clock) WaitTick(ctx context.Context) (uint64, error) {
	if c.interval > 0 {
		t := time.NewTimer(c.interval)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return c.ticks, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return c.ticks, err
	}
	c.ticks++
	return c.ticks, nil
}

// Ticks returns the number of ticks elapsed since the clock was created.
//
func (c *Clock) Ticks() uint64 {
	return c.ticks
}
