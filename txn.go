// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import "strconv"

// An Op is a transaction operation type.
//
type Op uint8

// Operation types.
//
const (
	OpWrite Op = iota
	OpRead
)

func (o Op) String() string {
	switch o {
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// A Transaction is one atomic interaction with the device: a single write or
// read operation. Transactions carry no address; the device's free running
// pointer selects the cell an operation lands on, so an operation's effect
// is determined by the tick at which it is driven.
//
// Seq is the transaction's position in the generated sequence, assigned by
// the generator. Tick is the tick at which the driver first applied the
// transaction to the device, zero until then. Data is the payload for
// writes and is unused for reads. A transaction must not be modified once
// the driver has applied it.
//
type Transaction struct {
	Seq  uint64
	Op   Op
	Data byte
	Tick uint64
}

func (t *Transaction) String() string {
	s := "#" + strconv.FormatUint(t.Seq, 10) + " " + t.Op.String()
	if t.Op == OpWrite {
		s += " 0x" + strconv.FormatUint(uint64(t.Data), 16)
	}
	if t.Tick > 0 {
		s += " @" + strconv.FormatUint(t.Tick, 10)
	}
	return s
}

// An Observation is a monitor sample of the device data output at a given
// tick.
//
type Observation struct {
	Tick uint64
	Data byte
}

// An ExpectedRecord is the reference model's prediction of the device data
// output for a read: the output must equal Data at tick Tick.
//
type ExpectedRecord struct {
	Tick uint64
	Data byte
}
