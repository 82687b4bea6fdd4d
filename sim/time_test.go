package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Time", func() {
	It("should convert between step sizes and frequencies", func() {
		f := FreqOf(0.005)

		Expect(float64(f)).To(BeNumerically("~", 200, 1e-9))
		Expect(float64(f.Period())).To(BeNumerically("~", 0.005, 1e-12))
		Expect(f.Cycle(1.0)).To(Equal(uint64(200)))
	})

	It("should count steps in a duration", func() {
		Expect(StepsIn(0.1, 0.005)).To(Equal(20))
		Expect(StepsIn(0, 0.005)).To(Equal(0))
	})

	It("should reject a zero frequency", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
		Expect(func() { FreqOf(0) }).To(Panic())
	})
})
