// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package ringtb

import (
	"time"

	"github.com/pkg/errors"
)

// A Config holds the parameters of a verification run.
//
type Config struct {
	// Size is the number of words in the device's address space.
	Size int `json:"address_space_size"`
	// Width is the word width in bits, 1 to 8.
	Width int `json:"word_width_bits"`
	// SeqLen is the maximum number of transactions to generate. A policy
	// may end the sequence earlier.
	SeqLen int `json:"sequence_length"`
	// Seed seeds the generator's random source. Runs with the same seed,
	// policy and configuration produce identical stimulus and reports.
	Seed int64 `json:"random_seed"`
	// Policy names the generator policy. See PolicyNames.
	Policy string `json:"generator_policy"`
	// Script is the stimulus script for the script policy.
	Script string `json:"script,omitempty"`
	// Hold is the number of consecutive ticks the driver holds each
	// transaction's signals. The device samples its inputs every tick, so
	// a transaction held for n ticks is performed n times on consecutive
	// cells.
	Hold int `json:"drive_ticks"`
	// Interval is the real time duration of one tick. Zero runs the clock
	// free, one logical tick per loop iteration.
	Interval time.Duration `json:"tick_interval"`
	// WriteRatio is the fraction of writes produced by the random policy,
	// 0 to 1.
	WriteRatio float64 `json:"write_ratio"`
}

// DefaultConfig returns the default run configuration: 16 words of 8 bits,
// 10 transactions from the random policy with seed 1.
//
func DefaultConfig() Config {
	return Config{
		Size:       16,
		Width:      8,
		SeqLen:     10,
		Seed:       1,
		Policy:     "random",
		Hold:       1,
		WriteRatio: 0.5,
	}
}

// Validate fills in defaults for unset fields and checks the configuration
// for consistency. It is called by New; a configuration that fails
// validation is rejected before any tick executes.
//
func (c *Config) Validate() error {
	if c.Size == 0 {
		c.Size = 16
	}
	if c.Width == 0 {
		c.Width = 8
	}
	if c.SeqLen == 0 {
		c.SeqLen = 10
	}
	if c.Hold == 0 {
		c.Hold = 1
	}
	if c.Policy == "" {
		c.Policy = "random"
	}
	if c.Size < 2 {
		return errors.Errorf("address space size %d: must be at least 2", c.Size)
	}
	if c.Width < 1 || c.Width > 8 {
		return errors.Errorf("word width %d: must be 1 to 8 bits", c.Width)
	}
	if c.SeqLen < 0 {
		return errors.Errorf("sequence length %d: must be positive", c.SeqLen)
	}
	if c.Hold < 0 {
		return errors.Errorf("drive ticks %d: must be positive", c.Hold)
	}
	if c.Interval < 0 {
		return errors.Errorf("tick interval %s: must not be negative", c.Interval)
	}
	if c.WriteRatio < 0 || c.WriteRatio > 1 {
		return errors.Errorf("write ratio %g: must be within [0, 1]", c.WriteRatio)
	}
	return nil
}

// mask returns the word mask for the configured width.
//
func (c *Config) mask() byte {
	return byte(1<<uint(c.Width) - 1)
}
