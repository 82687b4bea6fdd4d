package params

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/sim"
)

var _ = Describe("ParseSpec", func() {
	It("should parse constants", func() {
		spec, err := ParseSpec("0.25")
		Expect(err).NotTo(HaveOccurred())
		Expect(spec.Mean).To(Equal(0.25))
		Expect(spec.Free).To(BeFalse())
		Expect(math.IsInf(spec.Min, -1)).To(BeTrue())
	})

	It("should parse free parameters with bounds", func() {
		spec, err := ParseSpec("0.5~0.1<0,2>")
		Expect(err).NotTo(HaveOccurred())
		Expect(spec).To(Equal(Spec{Mean: 0.5, Std: 0.1, Min: 0, Max: 2, Free: true}))
	})

	It("should reject malformed settings", func() {
		for _, s := range []string{"abc", "1~x", "1<0,2", "1<2,0>", "1<0>"} {
			_, err := ParseSpec(s)
			Expect(err).To(HaveOccurred(), s)
		}
	})
})

var _ = Describe("Set", func() {
	var (
		set  *Set
		node *config.Node
	)

	BeforeEach(func() {
		set = NewSet()
		node = config.NewNode("MuscleReflex", "").
			Set("KL", "0.5~0.1<0,1>").
			Set("L0", "0.9").
			Set("bad", "x")
	})

	It("should qualify names with the prefix", func() {
		pop := set.PushPrefix("soleus.")
		_, err := set.Float(node, "KL", 0)
		Expect(err).NotTo(HaveOccurred())

		inner := set.PushPrefix("inner.")
		Expect(set.Prefix()).To(Equal("soleus.inner."))
		inner()
		pop()

		Expect(set.Prefix()).To(Equal(""))
		Expect(set.Infos()[0].Name).To(Equal("soleus.KL"))
	})

	It("should use external values for free parameters only", func() {
		set.WithValues(map[string]float64{"KL": 0.75, "L0": 3, "KX": 1})

		kl, _ := set.Float(node, "KL", 0)
		l0, _ := set.Float(node, "L0", 0)

		Expect(kl).To(Equal(0.75))
		Expect(l0).To(Equal(0.9))
		Expect(set.FreeInfos()).To(HaveLen(1))
		Expect(set.Unused()).To(ConsistOf("KX"))
	})

	It("should clamp to bounds", func() {
		set.WithValues(map[string]float64{"KL": 4})

		kl, _ := set.Float(node, "KL", 0)
		Expect(kl).To(Equal(1.0))
	})

	It("should return the default for missing settings", func() {
		v, err := set.Float(node, "KV", 0.3)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(0.3))
		Expect(set.Infos()).To(BeEmpty())
	})

	It("should keep the first value of a repeated name", func() {
		a, _ := set.FloatNamed(node, "KL", "gain", 0)
		b, _ := set.FloatNamed(node, "L0", "gain", 0)

		Expect(b).To(Equal(a))
	})

	It("should report bad settings as configuration errors", func() {
		_, err := set.Float(node, "bad", 0)
		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})
})
