// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cover collects functional coverage from a running verification
// environment.
//
// A Collector subscribes to the environment's analysis ports next to the
// scoreboard, exercising their fan out: checking continues undisturbed
// while the collector bins what the driver and monitor publish.
//
package cover

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dverif/ringtb"
)

// A Collector bins the stimulus and observations of one run.
//
type Collector struct {
	size int
	wg   sync.WaitGroup

	mu      sync.Mutex
	ticks   uint64
	writes  uint64
	reads   uint64
	idles   uint64
	samples uint64
	wvals   [256]uint64
	rvals   [256]uint64
}

// New returns a collector for a device with size words.
//
func New(size int) *Collector {
	return &Collector{size: size}
}

// Attach subscribes the collector to env's analysis ports and starts
// draining them. It must be called before the run starts.
//
func (c *Collector) Attach(env *ringtb.Env) {
	ds := env.DriverPort().Subscribe(64)
	ms := env.MonitorPort().Subscribe(64)
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		for s := range ds.C() {
			c.mu.Lock()
			c.ticks++
			if s.WriteEnable {
				c.writes++
				c.wvals[s.WriteData]++
			}
			if s.ReadEnable {
				c.reads++
			}
			if s.Idle() {
				c.idles++
			}
			c.mu.Unlock()
		}
	}()
	go func() {
		defer c.wg.Done()
		for o := range ms.C() {
			c.mu.Lock()
			c.samples++
			c.rvals[o.Data]++
			c.mu.Unlock()
		}
	}()
}

// Wait blocks until the run ends and both analysis ports close.
//
func (c *Collector) Wait() {
	c.wg.Wait()
}

// A Summary is a coverage snapshot.
//
type Summary struct {
	Ticks   uint64 // driven ticks seen
	Writes  uint64 // ticks with a write
	Reads   uint64 // ticks with a read
	Idles   uint64 // ticks with no operation
	Samples uint64 // observations seen
	Wraps   uint64 // full pointer revolutions completed
	// Distinct data values written and observed.
	WriteValues int
	ReadValues  int
}

// Summary returns the coverage collected so far. Call it after Wait for a
// full run's worth.
//
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Summary{
		Ticks:   c.ticks,
		Writes:  c.writes,
		Reads:   c.reads,
		Idles:   c.idles,
		Samples: c.samples,
		Wraps:   c.ticks / uint64(c.size),
	}
	for _, n := range c.wvals {
		if n > 0 {
			s.WriteValues++
		}
	}
	for _, n := range c.rvals {
		if n > 0 {
			s.ReadValues++
		}
	}
	return s
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ticks        %d\n", s.Ticks)
	fmt.Fprintf(&b, "writes       %d (%d values)\n", s.Writes, s.WriteValues)
	fmt.Fprintf(&b, "reads        %d (%d values observed)\n", s.Reads, s.ReadValues)
	fmt.Fprintf(&b, "idle ticks   %d\n", s.Idles)
	fmt.Fprintf(&b, "wraps        %d\n", s.Wraps)
	return b.String()
}
