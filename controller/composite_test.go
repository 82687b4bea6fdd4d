package controller

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/neurosim/config"
	"github.com/sarchlab/neurosim/model"
	"github.com/sarchlab/neurosim/params"
	"github.com/sarchlab/neurosim/sim"
)

var _ = Describe("CompositeController", func() {
	var (
		mockCtrl *gomock.Controller
		p        *fakePlant
		m        *model.Model
		ctx      BuildContext
		children []*MockController
		locs     []model.Location
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		p = newFakePlant()
		m = newTestModel(p, nil)
		ctx, _ = newTestContext(m)
		children = nil
		locs = nil

		ctx.Registry = NewRegistry()
		ctx.Registry.RegisterController("CompositeController",
			NewCompositeController)
		ctx.Registry.RegisterController("MirrorController",
			NewMirrorController)
		ctx.Registry.RegisterController("SequentialController",
			NewSequentialController)
		ctx.Registry.RegisterController("Mock",
			func(_ BuildContext, n *config.Node, loc model.Location) (Controller, error) {
				c := NewMockController(mockCtrl)
				c.EXPECT().Name().Return(n.String("name", "")).AnyTimes()
				children = append(children, c)
				locs = append(locs, loc)

				return c, nil
			})
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should run children in order and combine termination", func() {
		doc := mustParse(`
CompositeController:
  name: root
  Mock: {name: a}
  Controllers:
    - Mock: {name: b}
`)
		c, err := Build(ctx, doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(children).To(HaveLen(2))

		gomock.InOrder(
			children[0].EXPECT().UpdateControls(m, sim.VTimeInSec(0)).Return(false),
			children[1].EXPECT().UpdateControls(m, sim.VTimeInSec(0)).Return(true),
		)

		Expect(c.UpdateControls(m, 0)).To(BeTrue())
	})

	It("should evaluate every child even after a termination request", func() {
		doc := mustParse(`
CompositeController:
  Controllers:
    - Mock: {name: a}
    - Mock: {name: b}
`)
		c, err := Build(ctx, doc)
		Expect(err).NotTo(HaveOccurred())

		children[0].EXPECT().UpdateAnalysis(m, gomock.Any()).Return(true)
		children[1].EXPECT().UpdateAnalysis(m, gomock.Any()).Return(false)

		Expect(c.UpdateAnalysis(m, 0.5)).To(BeTrue())
	})

	It("should not run children outside its window", func() {
		doc := mustParse(`
CompositeController:
  start_time: 1
  stop_time: 2
  Mock: {name: a}
`)
		c, err := Build(ctx, doc)
		Expect(err).NotTo(HaveOccurred())

		children[0].EXPECT().UpdateControls(m, sim.VTimeInSec(1.5)).Return(false)

		Expect(c.UpdateControls(m, 0.5)).To(BeFalse())
		Expect(c.UpdateControls(m, 1.5)).To(BeFalse())
		Expect(c.UpdateControls(m, 2)).To(BeFalse())
	})

	It("should not run children when disabled", func() {
		doc := mustParse(`
CompositeController:
  disabled: yes
  Mock: {name: a}
`)
		c, err := Build(ctx, doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.IsDisabled()).To(BeTrue())

		Expect(c.UpdateControls(m, 0)).To(BeFalse())

		c.SetDisabled(false)
		children[0].EXPECT().UpdateControls(m, gomock.Any()).Return(false)
		Expect(c.UpdateControls(m, 0)).To(BeFalse())
	})

	It("should create children for both sides when dual sided", func() {
		doc := mustParse(`
CompositeController:
  dual_sided: true
  Mock: {name: a}
`)
		_, err := Build(ctx, doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(locs).To(HaveLen(2))
		Expect(locs[0].Side).To(Equal(model.SideLeft))
		Expect(locs[1].Side).To(Equal(model.SideRight))
	})

	It("should reset all children", func() {
		doc := mustParse(`
CompositeController:
  Controllers:
    - Mock: {name: a}
    - Mock: {name: a}
`)
		c, err := Build(ctx, doc)
		Expect(err).NotTo(HaveOccurred())

		for _, child := range children {
			child.EXPECT().Reset(m)
		}

		c.Reset(m)
	})

	It("should forward control parameters", func() {
		doc := mustParse(`
CompositeController:
  Controllers:
    - Mock: {name: a}
    - Mock: {name: b}
`)
		c, err := Build(ctx, doc)
		Expect(err).NotTo(HaveOccurred())

		children[0].EXPECT().TrySetControlParameter("KF", 2.0).Return(1)
		children[1].EXPECT().TrySetControlParameter("KF", 2.0).Return(1)
		Expect(c.TrySetControlParameter("KF", 2)).To(Equal(2))

		children[0].EXPECT().TryGetControlParameter("KL").Return(0.0, false)
		children[1].EXPECT().TryGetControlParameter("KL").Return(3.0, true)
		v, ok := c.TryGetControlParameter("KL")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(3.0))
	})

	It("should walk the tree depth first", func() {
		doc := mustParse(`
CompositeController:
  name: root
  Controllers:
    - MirrorController:
        Mock: {name: a}
    - Mock: {name: b}
`)
		c, err := Build(ctx, doc)
		Expect(err).NotTo(HaveOccurred())

		var names []string
		Walk(c, func(n Controller) {
			if _, ok := n.(*MockController); ok {
				names = append(names, n.Name())
			}
		})
		Expect(names).To(Equal([]string{"a", "a", "b"}))

		count := 0
		Walk(c, func(Controller) { count++ })
		Expect(count).To(Equal(5))
	})

	Context("mirror", func() {
		It("should create the right copy before the left copy", func() {
			doc := mustParse(`
MirrorController:
  Mock: {name: a}
`)
			c, err := Build(ctx, doc)
			Expect(err).NotTo(HaveOccurred())
			Expect(locs).To(HaveLen(2))
			Expect(locs[0].Side).To(Equal(model.SideRight))
			Expect(locs[1].Side).To(Equal(model.SideLeft))

			gomock.InOrder(
				children[0].EXPECT().UpdateControls(m, gomock.Any()).Return(true),
				children[1].EXPECT().UpdateControls(m, gomock.Any()).Return(false),
			)
			Expect(c.UpdateControls(m, 0)).To(BeTrue())
		})

		It("should need exactly one child", func() {
			doc := mustParse(`
MirrorController:
  Mock: {name: a}
  Controllers:
    - Mock: {name: b}
`)
			_, err := Build(ctx, doc)
			Expect(sim.IsConfigurationError(err)).To(BeTrue())
		})
	})

	Context("sequential", func() {
		It("should switch children after the transition intervals", func() {
			doc := mustParse(`
SequentialController:
  transition_intervals: [2, 3]
  Controllers:
    - Mock: {name: a}
    - Mock: {name: b}
    - Mock: {name: c}
`)
			c, err := Build(ctx, doc)
			Expect(err).NotTo(HaveOccurred())

			seq := c.(*SequentialController)
			Expect(seq.StartTimes()).To(Equal([]sim.VTimeInSec{0, 2, 5}))
			Expect(seq.ActiveIndex(0)).To(Equal(0))
			Expect(seq.ActiveIndex(1.999)).To(Equal(0))
			Expect(seq.ActiveIndex(2.5)).To(Equal(1))
			Expect(seq.ActiveIndex(10)).To(Equal(2))

			children[1].EXPECT().
				UpdateControls(m, gomock.Any()).
				DoAndReturn(func(_ *model.Model, t sim.VTimeInSec) bool {
					Expect(float64(t)).To(BeNumerically("~", 0.5, 1e-12))
					return false
				})

			Expect(c.UpdateControls(m, 2.5)).To(BeFalse())
		})

		It("should measure time from its own start time", func() {
			doc := mustParse(`
SequentialController:
  start_time: 1
  transition_intervals: 2
  Controllers:
    - Mock: {name: a}
    - Mock: {name: b}
`)
			c, err := Build(ctx, doc)
			Expect(err).NotTo(HaveOccurred())

			children[0].EXPECT().
				UpdateControls(m, gomock.Any()).
				DoAndReturn(func(_ *model.Model, t sim.VTimeInSec) bool {
					Expect(float64(t)).To(BeNumerically("~", 1.5, 1e-12))
					return false
				})

			Expect(c.UpdateControls(m, 2.5)).To(BeFalse())
		})

		It("should record transition intervals as parameters", func() {
			var par *params.Set
			ctx, par = newTestContext(m)
			ctx.Registry = newTestRegistry()

			doc := mustParse(`
SequentialController:
  transition_intervals: "2~0.1<1,3>"
  Controllers:
    - Timed: {}
    - Timed: {}
`)
			_, err := Build(ctx, doc)
			Expect(err).NotTo(HaveOccurred())
			Expect(par.Infos()).To(ContainElement(
				HaveField("Name", "transition1")))
		})

		It("should need one interval less than children", func() {
			doc := mustParse(`
SequentialController:
  transition_intervals: [1, 2]
  Controllers:
    - Mock: {name: a}
    - Mock: {name: b}
`)
			_, err := Build(ctx, doc)
			Expect(sim.IsConfigurationError(err)).To(BeTrue())
		})

		It("should need children", func() {
			doc := mustParse(`
SequentialController:
  transition_intervals: []
`)
			_, err := Build(ctx, doc)
			Expect(sim.IsConfigurationError(err)).To(BeTrue())
		})

		It("should store the active index", func() {
			doc := mustParse(`
SequentialController:
  transition_intervals: 1
  Controllers:
    - Mock: {name: a}
    - Mock: {name: b}
`)
			c, err := Build(ctx, doc)
			Expect(err).NotTo(HaveOccurred())

			children[1].EXPECT().UpdateControls(m, gomock.Any()).Return(false)
			Expect(c.UpdateControls(m, 1.5)).To(BeFalse())

			st := m.Data()
			f := st.AddFrame(1.5)
			children[1].EXPECT().StoreData(f, gomock.Any())

			c.StoreData(f, 0)

			v, ok := f.Get("SequentialController.active_index")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(1.0))
		})

		It("should store the child that ran when nested", func() {
			doc := mustParse(`
SequentialController:
  name: outer
  transition_intervals: 1
  Controllers:
    - Mock: {name: a}
    - SequentialController:
        name: inner
        transition_intervals: 0.5
        Controllers:
          - Mock: {name: x}
          - Mock: {name: y}
`)
			c, err := Build(ctx, doc)
			Expect(err).NotTo(HaveOccurred())
			Expect(children).To(HaveLen(3))

			children[1].EXPECT().
				UpdateControls(m, gomock.Any()).
				DoAndReturn(func(_ *model.Model, t sim.VTimeInSec) bool {
					Expect(float64(t)).To(BeNumerically("~", 0.2, 1e-12))
					return false
				})

			Expect(c.UpdateControls(m, 1.2)).To(BeFalse())

			f := m.Data().AddFrame(1.2)
			children[1].EXPECT().StoreData(f, gomock.Any())

			c.StoreData(f, 0)

			outer, _ := f.Get("outer.active_index")
			inner, _ := f.Get("inner.active_index")
			Expect(outer).To(Equal(1.0))
			Expect(inner).To(Equal(0.0))
		})

		It("should make the first child active again after a reset", func() {
			doc := mustParse(`
SequentialController:
  transition_intervals: 1
  Controllers:
    - Mock: {name: a}
    - Mock: {name: b}
`)
			c, err := Build(ctx, doc)
			Expect(err).NotTo(HaveOccurred())

			children[1].EXPECT().UpdateControls(m, gomock.Any()).Return(false)
			c.UpdateControls(m, 1.5)

			children[0].EXPECT().Reset(m)
			children[1].EXPECT().Reset(m)
			c.Reset(m)

			f := m.Data().AddFrame(2)
			children[0].EXPECT().StoreData(f, gomock.Any())
			c.StoreData(f, 0)

			v, _ := f.Get("SequentialController.active_index")
			Expect(v).To(Equal(0.0))
		})
	})
})

var _ = Describe("Registry", func() {
	It("should reject unknown controller types", func() {
		p := newFakePlant()
		m := newTestModel(p, nil)
		ctx, _ := newTestContext(m)

		_, err := ctx.Registry.CreateController(ctx,
			config.NewNode("NoSuchController", ""), model.NewLocation(model.SideNone))
		Expect(sim.IsConfigurationError(err)).To(BeTrue())

		_, err = ctx.Registry.CreateReflex(ctx,
			config.NewNode("NoSuchReflex", ""), nil, model.NewLocation(model.SideNone))
		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})

	It("should panic on duplicate registration", func() {
		r := DefaultRegistry()
		Expect(func() {
			r.RegisterController("ReflexController", NewReflexController)
		}).To(Panic())
	})

	It("should report a document without a controller", func() {
		p := newFakePlant()
		m := newTestModel(p, nil)
		ctx, _ := newTestContext(m)

		_, err := Build(ctx, mustParse("something: 1\n"))
		Expect(sim.IsConfigurationError(err)).To(BeTrue())
	})
})
