// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// An Env owns and wires the whole verification pipeline around a device:
// clock, generator, driver, monitor, reference model and scoreboard.
//
type Env struct {
	cfg   Config
	dev   Device
	clk   *Clock
	gen   *Generator
	drv   *Driver
	mon   *Monitor
	model *Model
	board *Scoreboard
}

// New builds an environment around dev. The configuration is validated
// first; an invalid configuration or an unknown policy name is reported
// before any tick executes.
//
func New(cfg Config, dev Device) (*Env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	p, err := newPolicy(&cfg)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	gen := NewGenerator(&cfg, p)
	return &Env{
		cfg:   cfg,
		dev:   dev,
		clk:   NewClock(cfg.Interval),
		gen:   gen,
		drv:   NewDriver(dev, gen, cfg.Hold),
		mon:   NewMonitor(dev),
		model: NewModel(cfg.Size, cfg.Width),
		board: NewScoreboard(),
	}, nil
}

// Config returns the environment's validated configuration.
//
func (e *Env) Config() Config {
	return e.cfg
}

// DriverPort returns the driver's analysis port. Subscribe before calling
// Run.
//
func (e *Env) DriverPort() *Hub[Signals] {
	return e.drv.Port()
}

// MonitorPort returns the monitor's analysis port. Subscribe before calling
// Run.
//
func (e *Env) MonitorPort() *Hub[Observation] {
	return e.mon.Port()
}

// Run executes the verification run to completion and returns its report.
//
// Each tick proceeds in a fixed order: the driver applies input signals to
// the device, the reference model consumes the same signal snapshot, the
// monitor samples and publishes the device output, the scoreboard's verdict
// for the tick is awaited, and only then does the device step. The run ends
// when the stimulus is exhausted and all expected records have drained, or
// early on a sync fault or context cancellation. On early termination the
// report carries the counts accumulated so far and the cause is returned as
// the error.
//
// Mismatches do not terminate the run; they are collected in the report and
// reflected in Report.Passed.
//
func (e *Env) Run(ctx context.Context) (*Report, error) {
	e.dev.Reset()
	e.model.Reset()

	gctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go e.gen.Run(gctx)

	// The scoreboard consumes the monitor's analysis port like any other
	// subscriber, but in lock step: its subscription is unbuffered and the
	// run loop waits for its verdict before committing the tick.
	sub := e.mon.Port().Subscribe(0)
	verdict := make(chan error)
	go func() {
		defer close(verdict)
		for o := range sub.C() {
			verdict <- e.board.Observe(o)
		}
	}()

	infof("run: policy=%s seed=%d len=%d size=%d width=%d",
		e.cfg.Policy, e.cfg.Seed, e.cfg.SeqLen, e.cfg.Size, e.cfg.Width)
	start := time.Now()
	var runErr error
	for {
		t, err := e.clk.WaitTick(ctx)
		if err != nil {
			runErr = err
			break
		}
		s := e.drv.Drive(t)
		if rec, ok := e.model.Apply(t, s); ok {
			e.board.Expect(rec)
			debugf("tick %d: expect 0x%02x at tick %d", t, rec.Data, rec.Tick)
		}
		e.mon.Sample(t)
		if err := <-verdict; err != nil {
			runErr = err
			errorf("tick %d: %v", t, err)
			break
		}
		e.dev.Step()
		if e.drv.Exhausted() && e.board.Pending() == 0 {
			break
		}
	}
	cancel()
	e.mon.Port().Close()
	e.drv.Port().Close()
	for range verdict {
		// drain verdicts emitted between the break and the close
	}

	r := &Report{
		Ticks:       e.clk.Ticks(),
		Driven:      e.drv.Driven(),
		Comparisons: e.board.Comparisons(),
		Mismatches:  e.board.Mismatches(),
		Fault:       e.board.Fault(),
		Elapsed:     time.Since(start),
	}
	infof("run done: %d ticks, %d transactions, %d comparisons, %d mismatches",
		r.Ticks, r.Driven, r.Comparisons, len(r.Mismatches))
	return r, runErr
}

// A Report summarizes a verification run.
//
type Report struct {
	Ticks       uint64        `json:"ticks"`
	Driven      uint64        `json:"transactions"`
	Comparisons uint64        `json:"comparisons"`
	Mismatches  []Mismatch    `json:"mismatches,omitempty"`
	Fault       *SyncFault    `json:"sync_fault,omitempty"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Passed reports whether the run completed every comparison equal, with no
// sync fault.
//
func (r *Report) Passed() bool {
	return r.Fault == nil && len(r.Mismatches) == 0
}

func (r *Report) String() string {
	var b strings.Builder
	verdict := "PASS"
	if !r.Passed() {
		verdict = "FAIL"
	}
	fmt.Fprintf(&b, "verdict      %s\n", verdict)
	fmt.Fprintf(&b, "ticks        %d\n", r.Ticks)
	fmt.Fprintf(&b, "transactions %d\n", r.Driven)
	fmt.Fprintf(&b, "comparisons  %d\n", r.Comparisons)
	fmt.Fprintf(&b, "mismatches   %d\n", len(r.Mismatches))
	for _, m := range r.Mismatches {
		fmt.Fprintf(&b, "    %s\n", m)
	}
	if r.Fault != nil {
		fmt.Fprintf(&b, "%s\n", r.Fault.Error())
	}
	return b.String()
}
