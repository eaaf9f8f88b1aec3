// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import (
	"fmt"
	"sync"
)

// A Mismatch records a comparison that failed: the device output did not
// match the reference model's prediction at the record's due tick.
//
type Mismatch struct {
	Tick uint64
	Want byte
	Got  byte
}

func (m Mismatch) String() string {
	return fmt.Sprintf("tick %d: want 0x%02x, got 0x%02x", m.Tick, m.Want, m.Got)
}

// A SyncFault reports lost synchronization between the reference model and
// the observed device: the head expected record's due tick passed without a
// matching observation. Comparisons past that point would be meaningless,
// so a sync fault aborts the run.
//
type SyncFault struct {
	// ObservedTick is the tick of the observation that exposed the fault.
	ObservedTick uint64
	// DueTick is the missed due tick of the head expected record.
	DueTick uint64
	// Want is the head record's predicted data.
	Want byte
}

func (f *SyncFault) Error() string {
	return fmt.Sprintf("sync fault: expected record (tick %d, data 0x%02x) missed, observation is at tick %d",
		f.DueTick, f.Want, f.ObservedTick)
}

// A Scoreboard checks monitor observations against the reference model's
// expected records in strict FIFO order: records are consumed in exactly
// the order the model produced them.
//
// The monitor samples every tick but the model only predicts read data, so
// most observations have no record to check against; the due tick on each
// record is what pairs the two streams up. For an observation at tick t and
// a head record due at tick d:
//
//	d > t    the observation is idle traffic, discard it
//	d == t   pop the record and compare, recording any mismatch
//	d < t    the due tick was missed, latch a sync fault
//
// Mismatches are not fatal; the run continues and they accumulate in the
// report. A sync fault is fatal and sticks: once latched, every subsequent
// Observe returns it.
//
// A Scoreboard is safe for concurrent use.
//
type Scoreboard struct {
	mu      sync.Mutex
	queue   []ExpectedRecord
	nchecks uint64
	mism    []Mismatch
	fault   *SyncFault
}

// NewScoreboard returns an empty scoreboard.
//
func NewScoreboard() *Scoreboard {
	return &Scoreboard{}
}

// Expect appends an expected record to the FIFO.
//
func (sb *Scoreboard) Expect(r ExpectedRecord) {
	sb.mu.Lock()
	sb.queue = append(sb.queue, r)
	sb.mu.Unlock()
}

// Observe checks one observation against the FIFO. It returns nil for
// discarded observations and completed comparisons, mismatched or not, and
// the latched *SyncFault once synchronization is lost.
//
func (sb *Scoreboard) Observe(o Observation) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if sb.fault != nil {
		return sb.fault
	}
	if len(sb.queue) == 0 {
		return nil
	}
	head := sb.queue[0]
	switch {
	case head.Tick > o.Tick:
		return nil
	case head.Tick < o.Tick:
		sb.fault = &SyncFault{ObservedTick: o.Tick, DueTick: head.Tick, Want: head.Data}
		return sb.fault
	}
	sb.queue = sb.queue[1:]
	sb.nchecks++
	if head.Data != o.Data {
		sb.mism = append(sb.mism, Mismatch{Tick: o.Tick, Want: head.Data, Got: o.Data})
	}
	return nil
}

// Comparisons returns the number of completed comparisons.
//
func (sb *Scoreboard) Comparisons() uint64 {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.nchecks
}

// Mismatches returns the recorded mismatches, in occurrence order.
//
func (sb *Scoreboard) Mismatches() []Mismatch {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return append([]Mismatch(nil), sb.mism...)
}

// Fault returns the latched sync fault, or nil.
//
func (sb *Scoreboard) Fault() *SyncFault {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.fault
}

// Pending returns the number of expected records not yet consumed.
//
func (sb *Scoreboard) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return len(sb.queue)
}
