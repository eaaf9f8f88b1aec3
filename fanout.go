// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import "sync"

// A Hub is a lossless broadcast channel. Every published value is delivered
// to every subscription, in subscription order. Publish blocks until all
// subscriptions have accepted the value, so subscribers must either consume
// promptly or subscribe with enough buffer to cover the run.
//
// The driver and the monitor each expose a Hub as their analysis port.
//
type Hub[T any] struct {
	mu     sync.Mutex
	subs   []*Sub[T]
	closed bool
}

// A Sub is a single subscription to a Hub.
//
type Sub[T any] struct {
	c chan T
}

// C returns the subscription's receive channel. The channel is closed when
// the hub shuts down.
//
func (s *Sub[T]) C() <-chan T {
	return s.c
}

// NewHub returns a new broadcast hub.
//
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{}
}

// Subscribe registers a new subscription whose channel has the given buffer
// size and returns it. Subscribing to a closed hub panics: subscriptions
// must be set up before the run starts.
//
func (h *Hub[T]) Subscribe(buf int) *Sub[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		panic("ringtb: subscribe on closed hub")
	}
	s := &Sub[T]{c: make(chan T, buf)}
	h.subs = append(h.subs, s)
	return s
}

// Publish delivers v to all subscriptions. Publishing on a closed hub
// panics.
//
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		panic("ringtb: publish on closed hub")
	}
	for _, s := range h.subs {
		s.c <- v
	}
}

// Close shuts the hub down, closing all subscription channels. Close is
// idempotent.
//
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, s := range h.subs {
		close(s.c)
	}
}
