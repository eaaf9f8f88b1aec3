// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

// Signals is the snapshot of input signals applied to a device for one tick.
// A zero Signals value is an idle tick.
//
type Signals struct {
	WriteEnable bool
	ReadEnable  bool
	WriteData   byte
}

// Idle reports whether s requests no operation.
//
func (s Signals) Idle() bool {
	return !s.WriteEnable && !s.ReadEnable
}

// A Device is the port level contract of the unit under test.
//
// Apply presents input signals for the current tick. Out returns the data
// output as of the current tick; the output is registered, so it reflects
// the signals applied on the previous tick. Step commits the current tick:
// it applies any pending write, updates the output register and advances the
// device's internal address pointer. Reset returns the device to its power
// on state.
//
// Implementations are driven from a single goroutine and need not be safe
// for concurrent use.
//
type Device interface {
	Apply(s Signals)
	Out() byte
	Step()
	Reset()
}
