// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

// A Driver converts transactions into per tick device input signals. Every
// tick it applies exactly one signal snapshot to the device, stamping each
// transaction with the tick at which it was first driven, and publishes the
// snapshot on its analysis port.
//
// A transaction's signals are held for the configured number of consecutive
// ticks; gaps requested by the stimulus and ticks past the end of the
// sequence are driven as idle snapshots, so the device sees a well defined
// input on every single tick.
//
type Driver struct {
	dev  Device
	src  *Generator
	port *Hub[Signals]
	hold int

	cur       *Transaction // transaction being driven, nil when none
	wait      int          // idle ticks left before cur is driven
	left      int          // hold ticks left for cur
	exhausted bool
	driven    uint64
}

// NewDriver returns a driver feeding dev from src, holding each
// transaction's signals for hold ticks.
//
func NewDriver(dev Device, src *Generator, hold int) *Driver {
	return &Driver{dev: dev, src: src, port: NewHub[Signals](), hold: hold}
}

// Port returns the driver's analysis port. Every applied signal snapshot,
// idle ticks included, is published on it.
//
func (d *Driver) Port() *Hub[Signals] {
	return d.port
}

// fetch blocks until the generator delivers the next stimulus item or ends
// the sequence.
//
func (d *Driver) fetch() {
	st, ok := <-d.src.Items()
	if !ok {
		d.exhausted = true
		return
	}
	d.cur, d.wait, d.left = st.Txn, st.Gap, d.hold
}

// Drive computes and applies the device inputs for tick t and returns the
// applied snapshot. When the current transaction's last hold tick has been
// driven, the driver acknowledges it to the generator, which unblocks
// production of the next item.
//
func (d *Driver) Drive(t uint64) Signals {
	if d.cur == nil && !d.exhausted {
		d.fetch()
	}
	var s Signals
	switch {
	case d.cur == nil:
		// past the end of the sequence: idle
	case d.wait > 0:
		d.wait--
	default:
		if d.left == d.hold {
			d.cur.Tick = t
		}
		switch d.cur.Op {
		case OpWrite:
			s = Signals{WriteEnable: true, WriteData: d.cur.Data}
		case OpRead:
			s = Signals{ReadEnable: true}
		}
		if d.left--; d.left == 0 {
			d.driven++
			d.cur = nil
			d.src.Ack()
		}
	}
	d.dev.Apply(s)
	d.port.Publish(s)
	return s
}

// Exhausted reports whether the stimulus sequence has ended and every item
// of it has been fully driven.
//
func (d *Driver) Exhausted() bool {
	return d.exhausted && d.cur == nil
}

// Driven returns the number of transactions driven to completion.
//
func (d *Driver) Driven() uint64 {
	return d.driven
}
