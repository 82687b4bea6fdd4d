package model

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/neurosim/sim"
)

var _ = Describe("Model with a mocked plant", func() {
	var (
		mockCtrl *gomock.Controller
		plant    *MockPlant
		actuator *MockActuator
		sensor   *MockSensor
		now      sim.VTimeInSec
		prev     sim.VTimeInSec
		m        *Model
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		plant = NewMockPlant(mockCtrl)
		actuator = NewMockActuator(mockCtrl)
		sensor = NewMockSensor(mockCtrl)
		now, prev = 0, 0

		plant.EXPECT().Name().Return("mock").AnyTimes()
		plant.EXPECT().Time().DoAndReturn(func() sim.VTimeInSec {
			return now
		}).AnyTimes()
		plant.EXPECT().PreviousTime().DoAndReturn(func() sim.VTimeInSec {
			return prev
		}).AnyTimes()
		plant.EXPECT().Actuators().Return([]Actuator{actuator}).AnyTimes()
		actuator.EXPECT().Name().Return("soleus_r").AnyTimes()
		sensor.EXPECT().Name().Return("soleus_r.L").AnyTimes()

		var err error
		m, err = MakeBuilder().WithPlant(plant).Build()
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Name()).To(Equal("model"))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should clear actuator inputs only when a controller is set", func() {
		m.UpdateControlValues()

		m.SetController(&scriptedController{})
		actuator.EXPECT().ClearInput().Times(2)

		now, prev = 0.001, 0
		m.UpdateControlValues()
		now, prev = 0.002, 0.001
		m.UpdateControlValues()
	})

	It("should sample delayed sensors when acquired and once per control step", func() {
		gomock.InOrder(
			sensor.EXPECT().Value().Return(0.5),
			sensor.EXPECT().Value().Return(1.0).Times(3),
		)

		_, err := m.AcquireDelayedSensor(sensor, 0.004)
		Expect(err).NotTo(HaveOccurred())

		for k := 0; k < 3; k++ {
			m.UpdateControlValues()
			prev = now
			now += 0.001
		}
	})

	It("should share one instance of a sensor", func() {
		Expect(m.AcquireSensor(sensor)).To(BeIdenticalTo(sensor))
		Expect(m.AcquireSensor(sensor)).To(BeIdenticalTo(sensor))
		Expect(m.Sensors()).To(HaveLen(1))
	})

	It("should refuse history updates out of order", func() {
		m.AcquireSensorDelayAdapter(sensor)

		now, prev = 0.002, 0.001

		Expect(m.UpdateSensorDelayAdapters).To(PanicWith(
			BeAssignableToTypeOf(&sim.RuntimeAssertionError{})))
	})
})
