// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import (
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/dverif/ringtb/internal/script"
)

// An Item is one unit of stimulus produced by a policy: an operation plus
// the number of idle ticks the driver inserts before driving it. Gaps are
// how directed policies line operations up with the device's free running
// pointer.
//
type Item struct {
	Op   Op
	Data byte
	Gap  int
}

// A Policy produces a stimulus stream. Next returns the next item, or
// ok == false when the policy has nothing more to give. A policy draws all
// of its randomness from rng, never from any other source, so that a run
// is reproducible from its seed.
//
// Policies are used by a single generator goroutine and need not be safe
// for concurrent use.
//
type Policy interface {
	Next(rng *rand.Rand) (it Item, ok bool)
}

// PolicyFunc adapts a function to the Policy interface.
//
type PolicyFunc func(rng *rand.Rand) (Item, bool)

// Next implements Policy.
//
func (f PolicyFunc) Next(rng *rand.Rand) (Item, bool) { return f(rng) }

var (
	policyMu  sync.Mutex
	policyReg = make(map[string]func(cfg *Config) (Policy, error))
)

// RegisterPolicy registers a named policy constructor. Constructors are
// invoked by New with the validated run configuration. Registering the same
// name twice panics.
//
func RegisterPolicy(name string, f func(cfg *Config) (Policy, error)) {
	policyMu.Lock()
	defer policyMu.Unlock()
	if _, ok := policyReg[name]; ok {
		panic("ringtb: policy " + name + " registered twice")
	}
	policyReg[name] = f
}

// PolicyNames returns the names of all registered policies, sorted.
//
func PolicyNames() []string {
	policyMu.Lock()
	defer policyMu.Unlock()
	names := make([]string, 0, len(policyReg))
	for n := range policyReg {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newPolicy(cfg *Config) (Policy, error) {
	policyMu.Lock()
	f := policyReg[cfg.Policy]
	policyMu.Unlock()
	if f == nil {
		return nil, errors.Errorf("unknown generator policy %q (have %s)",
			cfg.Policy, strings.Join(PolicyNames(), ", "))
	}
	p, err := f(cfg)
	return p, errors.Wrap(err, cfg.Policy+" policy")
}

func init() {
	RegisterPolicy("random", func(cfg *Config) (Policy, error) {
		return &mixPolicy{ratio: cfg.WriteRatio, mask: cfg.mask()}, nil
	})
	RegisterPolicy("all-write", func(cfg *Config) (Policy, error) {
		return &mixPolicy{ratio: 1, mask: cfg.mask()}, nil
	})
	RegisterPolicy("all-read", func(cfg *Config) (Policy, error) {
		return &mixPolicy{ratio: 0}, nil
	})
	RegisterPolicy("wrap", newWrapPolicy)
	RegisterPolicy("script", newScriptPolicy)
}

// mixPolicy produces an endless random mix of gapless writes and reads.
//
type mixPolicy struct {
	ratio float64
	mask  byte
}

func (p *mixPolicy) Next(rng *rand.Rand) (Item, bool) {
	if rng.Float64() < p.ratio {
		return Item{Op: OpWrite, Data: byte(rng.Intn(256)) & p.mask}, true
	}
	return Item{Op: OpRead}, true
}

// wrapPolicy alternates writes and reads, with each read timed so that the
// pointer has wrapped back to the first written cell when the read lands.
//
type wrapPolicy struct {
	gap  int
	mask byte
	read bool
}

func newWrapPolicy(cfg *Config) (Policy, error) {
	if cfg.Hold > cfg.Size {
		return nil, errors.Errorf("drive ticks %d exceed address space size %d", cfg.Hold, cfg.Size)
	}
	return &wrapPolicy{gap: cfg.Size - cfg.Hold, mask: cfg.mask()}, nil
}

func (p *wrapPolicy) Next(rng *rand.Rand) (Item, bool) {
	if p.read {
		p.read = false
		return Item{Op: OpRead, Gap: p.gap}, true
	}
	p.read = true
	return Item{Op: OpWrite, Data: byte(rng.Intn(256)) & p.mask}, true
}

// scriptPolicy replays a parsed stimulus script. Idle steps fold into the
// gap of the operation that follows them; trailing idles are dropped, as
// the environment keeps ticking until all expected records drain anyway.
//
type scriptPolicy struct {
	items []Item
	next  int
}

func newScriptPolicy(cfg *Config) (Policy, error) {
	if cfg.Script == "" {
		return nil, errors.New("empty script")
	}
	parsed, err := script.Parse(cfg.Script)
	if err != nil {
		return nil, err
	}
	mask := cfg.mask()
	var items []Item
	gap := 0
	for _, it := range parsed {
		switch it.Op {
		case script.Idle:
			gap += it.Repeat
			continue
		case script.Write:
			for n := 0; n < it.Repeat; n++ {
				items = append(items, Item{Op: OpWrite, Data: it.Data & mask, Gap: gap})
				gap = 0
			}
		case script.Read:
			for n := 0; n < it.Repeat; n++ {
				items = append(items, Item{Op: OpRead, Gap: gap})
				gap = 0
			}
		}
	}
	return &scriptPolicy{items: items}, nil
}

func (p *scriptPolicy) Next(rng *rand.Rand) (Item, bool) {
	if p.next >= len(p.items) {
		return Item{}, false
	}
	it := p.items[p.next]
	p.next++
	return it, true
}
