// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

// A Model is the pure software shadow of the ring memory device. It keeps
// its own copy of the memory array and address pointer and, fed the exact
// signals the driver applies, predicts the device output for every read.
//
// The model performs no I/O and holds no reference to the device; keeping
// it pure is what makes a divergence attributable to the device.
//
type Model struct {
	mem  []byte
	ptr  int
	mask byte
}

// NewModel returns a model of a ring memory with size words of width bits.
//
func NewModel(size, width int) *Model {
	return &Model{
		mem:  make([]byte, size),
		mask: byte(1<<uint(width) - 1),
	}
}

// Reset returns the model to its power on state: memory zeroed, pointer at
// word 0.
//
func (m *Model) Reset() {
	for i := range m.mem {
		m.mem[i] = 0
	}
	m.ptr = 0
}

// Ptr returns the model's current pointer position.
//
func (m *Model) Ptr() int {
	return m.ptr
}

// Word returns the model's copy of word i.
//
func (m *Model) Word(i int) byte {
	return m.mem[i]
}

// Apply advances the shadow state by one tick driven with s and returns the
// expected record for the read, if s requests one.
//
// The tick unfolds in device order: the word under the pointer is captured
// first, then a write commits, so a simultaneous write and read of the same
// cell observes the old value. The returned record is due at tick t+1, one
// tick after the request, matching the device's registered output. The
// pointer advances by exactly one position, wrapping, whether or not any
// operation was requested.
//
func (m *Model) Apply(t uint64, s Signals) (rec ExpectedRecord, ok bool) {
	old := m.mem[m.ptr]
	if s.WriteEnable {
		m.mem[m.ptr] = s.WriteData & m.mask
	}
	if s.ReadEnable {
		rec, ok = ExpectedRecord{Tick: t + 1, Data: old}, true
	}
	m.ptr++
	if m.ptr == len(m.mem) {
		m.ptr = 0
	}
	return rec, ok
}
