package ringtb_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dverif/ringtb"
	"github.com/dverif/ringtb/device"
)

// scriptConfig returns a default configuration running the given stimulus
// script.
func scriptConfig(script string) ringtb.Config {
	cfg := ringtb.DefaultConfig()
	cfg.Policy = "script"
	cfg.Script = script
	return cfg
}

var _ = Describe("Env", func() {
	run := func(cfg ringtb.Config, dev ringtb.Device) *ringtb.Report {
		env, err := ringtb.New(cfg, dev)
		Expect(err).NotTo(HaveOccurred())
		r, err := env.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	Context("with a directed wraparound script", func() {
		It("reads back the written value after a full revolution", func() {
			r := run(scriptConfig("w:a5 i*15 r"), device.NewRingMem(16, 8))
			Expect(r.Passed()).To(BeTrue())
			Expect(r.Driven).To(Equal(uint64(2)))
			Expect(r.Comparisons).To(Equal(uint64(1)))
			Expect(r.Mismatches).To(BeEmpty())
			Expect(r.Fault).To(BeNil())
			// write at tick 1, read at tick 17, its data due and checked
			// at tick 18
			Expect(r.Ticks).To(Equal(uint64(18)))
		})
	})

	Context("with back to back wrapped reads", func() {
		It("checks both reads against the right cells", func() {
			r := run(scriptConfig("w:11 w:22 i*14 r r"), device.NewRingMem(16, 8))
			Expect(r.Passed()).To(BeTrue())
			Expect(r.Driven).To(Equal(uint64(4)))
			Expect(r.Comparisons).To(Equal(uint64(2)))
			Expect(r.Ticks).To(Equal(uint64(19)))
		})
	})

	Context("with the wrap policy", func() {
		It("passes every read back", func() {
			cfg := ringtb.DefaultConfig()
			cfg.Policy = "wrap"
			cfg.SeqLen = 6
			cfg.Seed = 3
			r := run(cfg, device.NewRingMem(16, 8))
			Expect(r.Passed()).To(BeTrue())
			Expect(r.Driven).To(Equal(uint64(6)))
			Expect(r.Comparisons).To(Equal(uint64(3)))
		})

		It("holds signals for multiple consecutive ticks", func() {
			cfg := ringtb.DefaultConfig()
			cfg.Policy = "wrap"
			cfg.SeqLen = 2
			cfg.Hold = 2
			cfg.Seed = 5
			r := run(cfg, device.NewRingMem(16, 8))
			Expect(r.Passed()).To(BeTrue())
			Expect(r.Driven).To(Equal(uint64(2)))
			// a read held two ticks produces two expected records
			Expect(r.Comparisons).To(Equal(uint64(2)))
			Expect(r.Ticks).To(Equal(uint64(19)))
		})
	})

	Context("with random stimulus", func() {
		It("passes against the reference device", func() {
			cfg := ringtb.DefaultConfig()
			cfg.SeqLen = 50
			cfg.Seed = 7
			r := run(cfg, device.NewRingMem(16, 8))
			Expect(r.Passed()).To(BeTrue())
			Expect(r.Driven).To(Equal(uint64(50)))
		})

		It("is deterministic for a given seed", func() {
			cfg := ringtb.DefaultConfig()
			cfg.SeqLen = 40
			cfg.Seed = 11
			r1 := run(cfg, device.NewRingMem(16, 8))
			r2 := run(cfg, device.NewRingMem(16, 8))
			Expect(r2.Ticks).To(Equal(r1.Ticks))
			Expect(r2.Driven).To(Equal(r1.Driven))
			Expect(r2.Comparisons).To(Equal(r1.Comparisons))
			Expect(r2.Mismatches).To(Equal(r1.Mismatches))
		})
	})

	Context("with a defective device", func() {
		It("catches an early wrapping pointer", func() {
			env, err := ringtb.New(scriptConfig("w:a5 i*15 r"), device.NewEarlyWrap(16, 8))
			Expect(err).NotTo(HaveOccurred())
			r, err := env.Run(context.Background())
			Expect(err).NotTo(HaveOccurred(), "mismatches must not abort the run")
			Expect(r.Passed()).To(BeFalse())
			Expect(r.Fault).To(BeNil())
			Expect(r.Mismatches).To(HaveLen(1))
			Expect(r.Mismatches[0].Want).To(Equal(byte(0xa5)))
			Expect(r.Mismatches[0].Got).To(Equal(byte(0x00)))
		})

		It("keeps checking after the first mismatch", func() {
			env, err := ringtb.New(scriptConfig("w:a5 i*15 r w:3c i*15 r"), device.NewEarlyWrap(16, 8))
			Expect(err).NotTo(HaveOccurred())
			r, err := env.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Comparisons).To(Equal(uint64(2)))
			Expect(r.Mismatches).To(HaveLen(2))
		})
	})

	Context("configuration", func() {
		It("rejects an invalid word width before running", func() {
			cfg := ringtb.DefaultConfig()
			cfg.Width = 12
			_, err := ringtb.New(cfg, device.NewRingMem(16, 8))
			Expect(err).To(HaveOccurred())
		})

		It("rejects an unknown policy name", func() {
			cfg := ringtb.DefaultConfig()
			cfg.Policy = "fuzz"
			_, err := ringtb.New(cfg, device.NewRingMem(16, 8))
			Expect(err).To(MatchError(ContainSubstring("unknown generator policy")))
		})

		It("rejects the script policy without a script", func() {
			cfg := ringtb.DefaultConfig()
			cfg.Policy = "script"
			_, err := ringtb.New(cfg, device.NewRingMem(16, 8))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("cancellation", func() {
		It("stops the run and reports partial counts", func() {
			env, err := ringtb.New(ringtb.DefaultConfig(), device.NewRingMem(16, 8))
			Expect(err).NotTo(HaveOccurred())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			r, err := env.Run(ctx)
			Expect(err).To(MatchError(context.Canceled))
			Expect(r).NotTo(BeNil())
			Expect(r.Ticks).To(Equal(uint64(0)))
		})
	})

	Context("analysis ports", func() {
		It("delivers the same streams to every subscriber", func() {
			env, err := ringtb.New(scriptConfig("w:0f i*15 r"), device.NewRingMem(16, 8))
			Expect(err).NotTo(HaveOccurred())

			s1 := env.MonitorPort().Subscribe(32)
			s2 := env.MonitorPort().Subscribe(32)
			_, err = env.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			var o1, o2 []ringtb.Observation
			for o := range s1.C() {
				o1 = append(o1, o)
			}
			for o := range s2.C() {
				o2 = append(o2, o)
			}
			Expect(o1).To(HaveLen(18))
			Expect(o2).To(Equal(o1))
		})
	})

	Context("with a custom registered policy", func() {
		It("drives stimulus from it", func() {
			ringtb.RegisterPolicy("test-single-read", func(cfg *ringtb.Config) (ringtb.Policy, error) {
				n := 0
				return ringtb.PolicyFunc(func(rng *rand.Rand) (ringtb.Item, bool) {
					if n > 0 {
						return ringtb.Item{}, false
					}
					n++
					return ringtb.Item{Op: ringtb.OpRead}, true
				}), nil
			})
			cfg := ringtb.DefaultConfig()
			cfg.Policy = "test-single-read"
			r := run(cfg, device.NewRingMem(16, 8))
			Expect(r.Passed()).To(BeTrue())
			Expect(r.Driven).To(Equal(uint64(1)))
			Expect(r.Comparisons).To(Equal(uint64(1)))
		})
	})
})
