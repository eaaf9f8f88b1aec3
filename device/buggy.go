// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package device

// A Forwarding is a RingMem with a write forwarding defect: on a
// simultaneous write and read of a cell the output register captures the
// incoming value instead of the stored one. It diverges from RingMem only
// on write+read collision ticks.
//
type Forwarding struct {
	RingMem
}

// NewForwarding returns a forwarding ring memory.
//
func NewForwarding(size, width int) *Forwarding {
	return &Forwarding{RingMem: *NewRingMem(size, width)}
}

// Step implements ringtb.Device, committing the write before the read
// captures its value.
//
func (m *Forwarding) Step() {
	if m.in.WriteEnable {
		m.mem[m.ptr] = m.in.WriteData & m.mask
	}
	if m.in.ReadEnable {
		m.out = m.mem[m.ptr]
	}
	m.ptr++
	if m.ptr == len(m.mem) {
		m.ptr = 0
	}
}

// An EarlyWrap is a RingMem whose pointer wraps one position early,
// leaving the last word unreachable. Any stimulus that spans a wrap
// diverges from the reference model.
//
type EarlyWrap struct {
	RingMem
}

// NewEarlyWrap returns an early wrapping ring memory.
//
func NewEarlyWrap(size, width int) *EarlyWrap {
	return &EarlyWrap{RingMem: *NewRingMem(size, width)}
}

// Step implements ringtb.Device.
//
func (m *EarlyWrap) Step() {
	old := m.mem[m.ptr]
	if m.in.WriteEnable {
		m.mem[m.ptr] = m.in.WriteData & m.mask
	}
	if m.in.ReadEnable {
		m.out = old
	}
	m.ptr++
	if m.ptr == len(m.mem)-1 {
		m.ptr = 0
	}
}
