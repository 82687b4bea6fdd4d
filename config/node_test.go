package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/neurosim/sim"
)

const doc = `
SequentialController:
  name: phases
  transition_intervals: [2, 3]
  Controllers:
    - ReflexController:
        MuscleReflex:
          target: soleus
          KL: 0.5~0.1<0,2>
    - ReflexController:
        start_time: 1
  enabled: yes
  count: 3
`

var _ = Describe("Node", func() {
	var root *Node

	BeforeEach(func() {
		var err error
		root, err = Parse([]byte(doc))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should keep the mapping order", func() {
		seq := root.Child("SequentialController")
		Expect(seq).NotTo(BeNil())

		var keys []string
		for _, c := range seq.Children() {
			keys = append(keys, c.Key)
		}

		Expect(keys).To(Equal([]string{
			"name", "transition_intervals", "Controllers", "enabled", "count",
		}))
	})

	It("should turn single-key sequence items into typed children", func() {
		list := root.Child("SequentialController").Child("Controllers")
		Expect(list.Children()).To(HaveLen(2))
		Expect(list.Children()[0].Key).To(Equal("ReflexController"))

		reflex := list.Children()[0].Child("MuscleReflex")
		Expect(reflex.String("KL", "")).To(Equal("0.5~0.1<0,2>"))
		Expect(reflex.Path()).To(Equal(
			"SequentialController.Controllers.ReflexController.MuscleReflex"))
	})

	It("should read typed values", func() {
		seq := root.Child("SequentialController")

		intervals, err := seq.Floats("transition_intervals")
		Expect(err).NotTo(HaveOccurred())
		Expect(intervals).To(Equal([]float64{2, 3}))

		enabled, err := seq.Bool("enabled", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(enabled).To(BeTrue())

		count, err := seq.Int("count", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(3))

		missing, err := seq.Float("stop_time", 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(missing).To(Equal(7.0))
	})

	It("should report bad values as configuration errors", func() {
		seq := root.Child("SequentialController")

		_, err := seq.Float("name", 0)
		Expect(sim.IsConfigurationError(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("SequentialController.name"))

		_, err = seq.RequireString("states")
		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})

	It("should read space separated lists", func() {
		n := NewNode("", "").Set("values", "1 2,3")

		values, err := n.Floats("values")
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(Equal([]float64{1, 2, 3}))
	})

	It("should keep parameter bounds together", func() {
		n := NewNode("", "").Set("values", "2~0.1<1,3> 4")

		Expect(n.Strings("values")).To(Equal([]string{"2~0.1<1,3>", "4"}))
	})

	It("should convert a field of a larger document", func() {
		var outer struct {
			Controller yaml.Node `yaml:"controller"`
			Missing    yaml.Node `yaml:"missing"`
		}

		err := yaml.Unmarshal([]byte(`
controller:
  ReflexController:
    MuscleReflex: {target: soleus}
`), &outer)
		Expect(err).NotTo(HaveOccurred())

		n, err := FromYAML(&outer.Controller)
		Expect(err).NotTo(HaveOccurred())
		Expect(n.Child("ReflexController").Child("MuscleReflex").
			String("target", "")).To(Equal("soleus"))

		empty, err := FromYAML(&outer.Missing)
		Expect(err).NotTo(HaveOccurred())
		Expect(empty.Children()).To(BeEmpty())
	})

	It("should reject malformed documents", func() {
		_, err := Parse([]byte("a: [1, 2"))
		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})
})
