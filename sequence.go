// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import (
	"context"
	"math/rand"
)

// A Stim pairs a generated transaction with the idle gap that precedes it.
//
type Stim struct {
	Txn *Transaction
	Gap int
}

// A Generator lazily produces a bounded transaction sequence from a policy.
//
// The generator owns the run's random source; the policy it drives is the
// source's only consumer, which makes the produced sequence a pure function
// of (seed, policy, configuration).
//
// Delivery to the driver is a single slot rendezvous: the generator sends
// one item on an unbuffered channel, then waits for Ack before producing
// the next. At most one item is ever in flight, and items the driver never
// asked for are never generated.
//
type Generator struct {
	policy Policy
	rng    *rand.Rand
	limit  int
	out    chan Stim
	ack    chan struct{}
}

// NewGenerator returns a generator producing at most cfg.SeqLen items from
// p, seeded with cfg.Seed.
//
func NewGenerator(cfg *Config, p Policy) *Generator {
	return &Generator{
		policy: p,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		limit:  cfg.SeqLen,
		out:    make(chan Stim),
		ack:    make(chan struct{}, 1),
	}
}

// Items returns the stimulus channel. The channel is closed once the
// sequence is exhausted or the generator's context is cancelled; a closed
// channel is the normal end of stimulus, not an error.
//
func (g *Generator) Items() <-chan Stim {
	return g.out
}

// Ack acknowledges consumption of the last received item, letting the
// generator produce the next one. Ack never blocks.
//
func (g *Generator) Ack() {
	g.ack <- struct{}{}
}

// Run produces the sequence. It returns, closing the stimulus channel, when
// the policy ends, the configured length is reached or ctx is cancelled.
// Run is meant to be called on its own goroutine.
//
func (g *Generator) Run(ctx context.Context) {
	defer close(g.out)
	for n := 0; n < g.limit; n++ {
		it, ok := g.policy.Next(g.rng)
		if !ok {
			return
		}
		st := Stim{
			Txn: &Transaction{Seq: uint64(n), Op: it.Op, Data: it.Data},
			Gap: it.Gap,
		}
		select {
		case g.out <- st:
		case <-ctx.Done():
			return
		}
		select {
		case <-g.ack:
		case <-ctx.Done():
			return
		}
	}
}
