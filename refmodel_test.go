package ringtb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dverif/ringtb"
)

var _ = Describe("Model", func() {
	var m *ringtb.Model

	BeforeEach(func() {
		m = ringtb.NewModel(16, 8)
	})

	It("advances the pointer every tick, operation or not", func() {
		m.Apply(1, ringtb.Signals{})
		Expect(m.Ptr()).To(Equal(1))
		m.Apply(2, ringtb.Signals{WriteEnable: true, WriteData: 0x42})
		Expect(m.Ptr()).To(Equal(2))
		m.Apply(3, ringtb.Signals{ReadEnable: true})
		Expect(m.Ptr()).To(Equal(3))
	})

	It("wraps the pointer after a full revolution", func() {
		for t := uint64(1); t <= 16; t++ {
			m.Apply(t, ringtb.Signals{})
		}
		Expect(m.Ptr()).To(Equal(0))
		m.Apply(17, ringtb.Signals{})
		Expect(m.Ptr()).To(Equal(1))
	})

	It("stamps records due one tick after the request", func() {
		rec, ok := m.Apply(7, ringtb.Signals{ReadEnable: true})
		Expect(ok).To(BeTrue())
		Expect(rec.Tick).To(Equal(uint64(8)))
	})

	It("produces no record without a read", func() {
		_, ok := m.Apply(1, ringtb.Signals{WriteEnable: true, WriteData: 1})
		Expect(ok).To(BeFalse())
		_, ok = m.Apply(2, ringtb.Signals{})
		Expect(ok).To(BeFalse())
	})

	It("predicts a read back after a full wrap", func() {
		m.Apply(1, ringtb.Signals{WriteEnable: true, WriteData: 0xa5})
		for t := uint64(2); t <= 16; t++ {
			m.Apply(t, ringtb.Signals{})
		}
		Expect(m.Ptr()).To(Equal(0))
		rec, ok := m.Apply(17, ringtb.Signals{ReadEnable: true})
		Expect(ok).To(BeTrue())
		Expect(rec.Data).To(Equal(byte(0xa5)))
		Expect(rec.Tick).To(Equal(uint64(18)))
	})

	It("captures the old value on a write+read collision", func() {
		m.Apply(1, ringtb.Signals{WriteEnable: true, WriteData: 0x11})
		for t := uint64(2); t <= 16; t++ {
			m.Apply(t, ringtb.Signals{})
		}
		rec, ok := m.Apply(17, ringtb.Signals{WriteEnable: true, ReadEnable: true, WriteData: 0x22})
		Expect(ok).To(BeTrue())
		Expect(rec.Data).To(Equal(byte(0x11)), "the read must observe the pre write value")
		Expect(m.Word(0)).To(Equal(byte(0x22)), "the write must still commit")
	})

	It("masks written data to the word width", func() {
		m4 := ringtb.NewModel(4, 4)
		m4.Apply(1, ringtb.Signals{WriteEnable: true, WriteData: 0xff})
		Expect(m4.Word(0)).To(Equal(byte(0x0f)))
	})

	It("resets to all zero words and pointer 0", func() {
		m.Apply(1, ringtb.Signals{WriteEnable: true, WriteData: 0x55})
		m.Apply(2, ringtb.Signals{})
		m.Reset()
		Expect(m.Ptr()).To(Equal(0))
		Expect(m.Word(0)).To(Equal(byte(0)))
	})
})
