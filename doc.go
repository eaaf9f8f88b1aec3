// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package ringtb provides a transaction level verification environment for a
small synchronous ring memory device.

The device under test is a wrapping word memory with a free running address
pointer that advances by one position every clock tick, and a registered data
output with a one tick read latency: data requested at tick t appears on the
output at tick t+1.

The environment mirrors a classic hardware verification bench: a seeded
sequence generator produces transactions, a driver converts them into per
tick input signals, a monitor samples the device output every tick, a pure
reference model predicts the expected output for every read, and a scoreboard
checks observations against predictions in strict FIFO order. Env wires these
components together and runs them in lock step; given the same seed, policy
and configuration, a run is fully deterministic.

Components communicate over broadcast hubs so that additional subscribers,
such as coverage collectors or live trace streamers, can observe a run
without disturbing it.
*/
package ringtb
