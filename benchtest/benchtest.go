// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package benchtest provides utilities for exercising ring memory devices
// against the reference model in lock step.
//
package benchtest

import (
	"math/rand"
	"testing"

	"github.com/dverif/ringtb"
)

// A Bench steps a device, a reference model and a scoreboard together under
// scripted signals, without any of the environment's goroutines. It is the
// harness for corner cases that need signal level control, such as
// write+read collisions, which single operation transactions never produce.
//
type Bench struct {
	Dev   ringtb.Device
	Model *ringtb.Model
	Board *ringtb.Scoreboard

	tick uint64
	skew int
}

// New returns a bench around dev, reset, with a fresh model of the given
// geometry and an empty scoreboard.
//
func New(dev ringtb.Device, size, width int) *Bench {
	dev.Reset()
	return &Bench{
		Dev:   dev,
		Model: ringtb.NewModel(size, width),
		Board: ringtb.NewScoreboard(),
	}
}

// SkewModel offsets the due tick of every subsequent expected record by d
// ticks, desynchronizing model and device on purpose. A skewed bench must
// end up with a sync fault, mismatches or leftover pending records; a
// clean pass would mean lock stepping is assumed rather than checked.
//
func (b *Bench) SkewModel(d int) {
	b.skew = d
}

// Tick runs one tick with the given input signals: the signals are applied
// to both device and model, the output is observed and checked, and the
// device steps. It returns the scoreboard's verdict for the tick.
//
func (b *Bench) Tick(s ringtb.Signals) error {
	b.tick++
	b.Dev.Apply(s)
	if rec, ok := b.Model.Apply(b.tick, s); ok {
		rec.Tick = uint64(int64(rec.Tick) + int64(b.skew))
		b.Board.Expect(rec)
	}
	err := b.Board.Observe(ringtb.Observation{Tick: b.tick, Data: b.Dev.Out()})
	b.Dev.Step()
	return err
}

// Run ticks the bench through script, stopping at the first sync fault.
//
func (b *Bench) Run(script []ringtb.Signals) error {
	for _, s := range script {
		if err := b.Tick(s); err != nil {
			return err
		}
	}
	return nil
}

// Idle runs n idle ticks, stopping at the first sync fault.
//
func (b *Bench) Idle(n int) error {
	for i := 0; i < n; i++ {
		if err := b.Tick(ringtb.Signals{}); err != nil {
			return err
		}
	}
	return nil
}

// Ticks returns the number of ticks run so far.
//
func (b *Bench) Ticks() uint64 {
	return b.tick
}

// Lockstep drives dev against the reference model and reports any
// divergence through t. Directed corners are tried first: a write+read
// collision on a single cell, then a read of that cell a full wrap later.
// After that, n random signal snapshots drawn from cfg.Seed follow, and
// the bench idles long enough for the last record to drain.
//
func Lockstep(t *testing.T, dev ringtb.Device, cfg ringtb.Config, n int) {
	t.Helper()

	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	b := New(dev, cfg.Size, cfg.Width)
	rng := rand.New(rand.NewSource(cfg.Seed))

	gap := make([]ringtb.Signals, cfg.Size-1)
	var script []ringtb.Signals
	script = append(script, ringtb.Signals{WriteEnable: true, WriteData: 0x5a})
	script = append(script, gap...)
	script = append(script, ringtb.Signals{WriteEnable: true, ReadEnable: true, WriteData: 0xc3})
	script = append(script, gap...)
	script = append(script, ringtb.Signals{ReadEnable: true})
	if err := b.Run(script); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < n; i++ {
		var s ringtb.Signals
		switch rng.Intn(4) {
		case 0:
			s = ringtb.Signals{WriteEnable: true, WriteData: byte(rng.Intn(256))}
		case 1:
			s = ringtb.Signals{ReadEnable: true}
		case 2:
			s = ringtb.Signals{WriteEnable: true, ReadEnable: true, WriteData: byte(rng.Intn(256))}
		case 3:
			// idle
		}
		if err := b.Tick(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Idle(cfg.Size); err != nil {
		t.Fatal(err)
	}

	for _, m := range b.Board.Mismatches() {
		t.Errorf("%s", m)
	}
	if p := b.Board.Pending(); p > 0 {
		t.Errorf("%d expected records left pending", p)
	}
	t.Logf("%d ticks, %d comparisons", b.Ticks(), b.Board.Comparisons())
}
