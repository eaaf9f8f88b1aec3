package ringtb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dverif/ringtb"
)

var _ = Describe("Scoreboard", func() {
	var sb *ringtb.Scoreboard

	BeforeEach(func() {
		sb = ringtb.NewScoreboard()
	})

	It("discards observations while the queue is empty", func() {
		Expect(sb.Observe(ringtb.Observation{Tick: 1, Data: 0xff})).To(Succeed())
		Expect(sb.Comparisons()).To(Equal(uint64(0)))
		Expect(sb.Mismatches()).To(BeEmpty())
	})

	It("discards observations before the due tick", func() {
		sb.Expect(ringtb.ExpectedRecord{Tick: 5, Data: 0x42})
		Expect(sb.Observe(ringtb.Observation{Tick: 3, Data: 0x00})).To(Succeed())
		Expect(sb.Observe(ringtb.Observation{Tick: 4, Data: 0x00})).To(Succeed())
		Expect(sb.Comparisons()).To(Equal(uint64(0)))
		Expect(sb.Pending()).To(Equal(1))
	})

	It("pops and compares at the due tick", func() {
		sb.Expect(ringtb.ExpectedRecord{Tick: 5, Data: 0x42})
		Expect(sb.Observe(ringtb.Observation{Tick: 5, Data: 0x42})).To(Succeed())
		Expect(sb.Comparisons()).To(Equal(uint64(1)))
		Expect(sb.Mismatches()).To(BeEmpty())
		Expect(sb.Pending()).To(Equal(0))
	})

	It("records a mismatch without failing the run", func() {
		sb.Expect(ringtb.ExpectedRecord{Tick: 5, Data: 0x42})
		sb.Expect(ringtb.ExpectedRecord{Tick: 7, Data: 0x43})
		Expect(sb.Observe(ringtb.Observation{Tick: 5, Data: 0x24})).To(Succeed())
		Expect(sb.Observe(ringtb.Observation{Tick: 7, Data: 0x43})).To(Succeed())
		Expect(sb.Comparisons()).To(Equal(uint64(2)))
		Expect(sb.Fault()).To(BeNil())

		m := sb.Mismatches()
		Expect(m).To(HaveLen(1))
		Expect(m[0]).To(Equal(ringtb.Mismatch{Tick: 5, Want: 0x42, Got: 0x24}))
	})

	It("consumes records in FIFO order", func() {
		sb.Expect(ringtb.ExpectedRecord{Tick: 3, Data: 0x01})
		sb.Expect(ringtb.ExpectedRecord{Tick: 4, Data: 0x02})
		Expect(sb.Observe(ringtb.Observation{Tick: 3, Data: 0x01})).To(Succeed())
		Expect(sb.Observe(ringtb.Observation{Tick: 4, Data: 0x02})).To(Succeed())
		Expect(sb.Comparisons()).To(Equal(uint64(2)))
		Expect(sb.Mismatches()).To(BeEmpty())
	})

	It("latches a sync fault when a due tick is missed", func() {
		sb.Expect(ringtb.ExpectedRecord{Tick: 5, Data: 0x42})
		err := sb.Observe(ringtb.Observation{Tick: 6, Data: 0x42})
		Expect(err).To(HaveOccurred())

		fault, ok := err.(*ringtb.SyncFault)
		Expect(ok).To(BeTrue())
		Expect(fault.DueTick).To(Equal(uint64(5)))
		Expect(fault.ObservedTick).To(Equal(uint64(6)))

		// the fault sticks: later observations keep returning it, and no
		// further comparison happens
		sb.Expect(ringtb.ExpectedRecord{Tick: 8, Data: 0x01})
		Expect(sb.Observe(ringtb.Observation{Tick: 8, Data: 0x01})).To(MatchError(fault))
		Expect(sb.Comparisons()).To(Equal(uint64(0)))
		Expect(sb.Fault()).To(Equal(fault))
	})
})
