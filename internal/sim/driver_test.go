package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaosdp/internal/sim"
)

var _ = Describe("Driver", func() {
	var (
		set    *sim.Set
		sched  *sim.Scheduler
		driver *sim.Driver
	)

	BeforeEach(func() {
		opts := sim.DefaultOptions()
		opts.ChaosCount = 16
		set = sim.NewSet(opts)
		sched = sim.NewScheduler(sim.RealTime, 0)
		driver = sim.NewDriver(set, sched)
	})

	It("starts in RealTime with the default population", func() {
		Expect(driver.Scheduler().Mode()).To(Equal(sim.RealTime))
		Expect(driver.Set().Population()).To(Equal(sim.PopulationDefault))
	})

	It("applies events before stepping", func() {
		driver.Post(sim.EventSelectChaos)
		Expect(set.Len()).To(Equal(1))

		Expect(driver.Tick(0)).To(Equal(0))
		Expect(set.Population()).To(Equal(sim.PopulationChaos))
		Expect(set.Len()).To(Equal(16))
		Expect(set.At(0).Top().AngularVelocity()).To(BeZero())
	})

	It("collapses repeated toggles within a tick", func() {
		driver.Post(sim.EventTogglePrecision)
		driver.Post(sim.EventTogglePrecision)
		driver.Tick(0)
		Expect(sched.Mode()).To(Equal(sim.Precision))

		driver.Post(sim.EventTogglePrecision)
		driver.Tick(0)
		Expect(sched.Mode()).To(Equal(sim.RealTime))
	})

	It("counts ticks and steps", func() {
		driver.Post(sim.EventTogglePrecision)
		n := driver.Tick(0.0021)
		n += driver.Tick(0.01)
		Expect(driver.Ticks()).To(Equal(2))
		Expect(driver.Steps()).To(Equal(n))
		Expect(n).To(BeNumerically("~", 60, 1))
	})

	It("ignores unknown events", func() {
		driver.Post(sim.Event(42))
		Expect(driver.Tick(0.01)).To(Equal(1))
		Expect(set.Population()).To(Equal(sim.PopulationDefault))
	})

	DescribeTable("parses event names",
		func(name string, want sim.Event, ok bool) {
			got, found := sim.ParseEvent(name)
			Expect(found).To(Equal(ok))
			if ok {
				Expect(got).To(Equal(want))
			}
		},
		Entry("default", "default", sim.EventSelectDefault, true),
		Entry("chaos", "chaos", sim.EventSelectChaos, true),
		Entry("toggle", "toggle", sim.EventTogglePrecision, true),
		Entry("unknown", "explode", sim.Event(0), false),
	)
})
