// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

// A Monitor samples the device data output and broadcasts observations on
// its analysis port. It samples unconditionally on every tick, whether or
// not a read is in flight; downstream components decide what an observation
// means.
//
type Monitor struct {
	dev  Device
	port *Hub[Observation]
	n    uint64
}

// NewMonitor returns a monitor sampling dev.
//
func NewMonitor(dev Device) *Monitor {
	return &Monitor{dev: dev, port: NewHub[Observation]()}
}

// Port returns the monitor's analysis port. The scoreboard subscribes to
// it like any other consumer; the monitor itself performs no checking.
//
func (m *Monitor) Port() *Hub[Observation] {
	return m.port
}

// Sample reads the device output for tick t and publishes the observation.
//
func (m *Monitor) Sample(t uint64) Observation {
	o := Observation{Tick: t, Data: m.dev.Out()}
	m.n++
	m.port.Publish(o)
	return o
}

// Samples returns the number of observations published.
//
func (m *Monitor) Samples() uint64 {
	return m.n
}
