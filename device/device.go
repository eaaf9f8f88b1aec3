// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package device provides implementations of the ring memory under test.
//
// A ring memory is a synchronous wrapping word memory with a free running
// address pointer that advances one position per clock tick, reads and
// writes landing on whatever cell the pointer selects. RingMem is the
// well behaved implementation; the other types carry deliberate defects
// and exist to prove that the verification pipeline catches real
// divergence.
//
package device

import "github.com/dverif/ringtb"

// A RingMem is a synchronous ring memory with a registered data output.
//
// Inputs applied with Apply persist, like driven wires, until the next
// Apply. Step commits one tick: the word under the pointer is captured
// before a write commits, so a simultaneous write and read of the same
// cell reads the old value, and the pointer then advances by one position,
// wrapping, whether or not an operation was requested. The output register
// updates only on ticks where ReadEnable was asserted and holds its value
// otherwise, giving reads a one tick latency.
//
type RingMem struct {
	mem  []byte
	ptr  int
	mask byte
	in   ringtb.Signals
	out  byte
}

// NewRingMem returns a ring memory with size words of width bits. It
// panics if size < 2 or width is outside 1 to 8.
//
func NewRingMem(size, width int) *RingMem {
	if size < 2 || width < 1 || width > 8 {
		panic("device: invalid ring memory geometry")
	}
	return &RingMem{
		mem:  make([]byte, size),
		mask: byte(1<<uint(width) - 1),
	}
}

// Apply implements ringtb.Device.
//
func (m *RingMem) Apply(s ringtb.Signals) {
	m.in = s
}

// Out implements ringtb.Device.
//
func (m *RingMem) Out() byte {
	return m.out
}

// Step implements ringtb.Device.
//
func (m *RingMem) Step() {
	old := m.mem[m.ptr]
	if m.in.WriteEnable {
		m.mem[m.ptr] = m.in.WriteData & m.mask
	}
	if m.in.ReadEnable {
		m.out = old
	}
	m.ptr++
	if m.ptr == len(m.mem) {
		m.ptr = 0
	}
}

// Reset implements ringtb.Device.
//
func (m *RingMem) Reset() {
	for i := range m.mem {
		m.mem[i] = 0
	}
	m.ptr = 0
	m.out = 0
	m.in = ringtb.Signals{}
}
