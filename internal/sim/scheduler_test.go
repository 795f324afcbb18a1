package sim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaosdp/internal/sim"
)

type recorder struct {
	steps []float64
}

func (r *recorder) Advance(dt float64) { r.steps = append(r.steps, dt) }

var _ = Describe("Scheduler", func() {
	var rec *recorder

	BeforeEach(func() {
		rec = &recorder{}
	})

	It("falls back to the default fixed step", func() {
		Expect(sim.NewScheduler(sim.Precision, 0).FixedStep()).To(Equal(sim.DefaultFixedStep))
		Expect(sim.NewScheduler(sim.Precision, -1).FixedStep()).To(Equal(sim.DefaultFixedStep))
	})

	Context("in RealTime mode", func() {
		It("advances once by the elapsed time", func() {
			s := sim.NewScheduler(sim.RealTime, 0)
			Expect(s.Tick(rec, 0.016)).To(Equal(1))
			Expect(rec.steps).To(Equal([]float64{0.016}))
			Expect(s.LastSteps()).To(Equal(1))
		})

		It("skips ticks with no elapsed time", func() {
			s := sim.NewScheduler(sim.RealTime, 0)
			Expect(s.Tick(rec, 0)).To(Equal(0))
			Expect(s.Tick(rec, -0.5)).To(Equal(0))
			Expect(rec.steps).To(BeEmpty())
		})

		It("matches one Advance on a real set", func() {
			set := sim.NewSet(sim.DefaultOptions())
			ref := sim.NewSet(sim.DefaultOptions())

			sim.NewScheduler(sim.RealTime, 0).Tick(set, 0.02)
			ref.Advance(0.02)
			Expect(set.At(0).State()).To(Equal(ref.At(0).State()))
		})
	})

	Context("in Precision mode", func() {
		It("runs only whole fixed steps", func() {
			s := sim.NewScheduler(sim.Precision, sim.DefaultFixedStep)
			Expect(s.Tick(rec, 1.0/60)).To(Equal(83))
			for _, dt := range rec.steps {
				Expect(dt).To(Equal(sim.DefaultFixedStep))
			}
			Expect(s.Accumulator()).To(BeNumerically(">=", 0))
			Expect(s.Accumulator()).To(BeNumerically("<", sim.DefaultFixedStep))
		})

		It("carries the residual into the next tick", func() {
			s := sim.NewScheduler(sim.Precision, 0.25)
			Expect(s.Tick(rec, 0.125)).To(Equal(0))
			Expect(s.Accumulator()).To(Equal(0.125))
			Expect(s.Tick(rec, 0.125)).To(Equal(1))
			Expect(s.Accumulator()).To(BeZero())
		})

		It("depends only on the total elapsed time", func() {
			a := sim.NewSet(sim.DefaultOptions())
			b := sim.NewSet(sim.DefaultOptions())
			sa := sim.NewScheduler(sim.Precision, 0.25)
			sb := sim.NewScheduler(sim.Precision, 0.25)

			na := sa.Tick(a, 0.5) + sa.Tick(a, 0.75)
			nb := sb.Tick(b, 1.0) + sb.Tick(b, 0.25)

			Expect(na).To(Equal(5))
			Expect(nb).To(Equal(5))
			Expect(sa.Accumulator()).To(Equal(sb.Accumulator()))
			Expect(a.At(0).State()).To(Equal(b.At(0).State()))
		})

		It("splits decimal frame times without losing steps", func() {
			a := sim.NewSet(sim.DefaultOptions())
			b := sim.NewSet(sim.DefaultOptions())
			sa := sim.NewScheduler(sim.Precision, sim.DefaultFixedStep)
			sb := sim.NewScheduler(sim.Precision, sim.DefaultFixedStep)

			na := sa.Tick(a, 0.0006) + sa.Tick(a, 0.0004)
			nb := sb.Tick(b, 0.001)

			Expect(na).To(Equal(5))
			Expect(nb).To(Equal(5))
			Expect(sa.Accumulator()).To(BeZero())
			Expect(sb.Accumulator()).To(BeZero())
			Expect(a.At(0).State()).To(Equal(b.At(0).State()))

			Expect(sim.NewScheduler(sim.Precision, sim.DefaultFixedStep).Tick(rec, 0.0162)).To(Equal(81))
		})

		It("replays a long stall in one burst", func() {
			s := sim.NewScheduler(sim.Precision, sim.DefaultFixedStep)
			Expect(s.Tick(rec, 1.0)).To(Equal(5000))
		})

		It("keeps the accumulator in [0, step) over irregular ticks", func() {
			s := sim.NewScheduler(sim.Precision, sim.DefaultFixedStep)
			for _, dt := range []float64{0.016, 0.0001, 0.033, 0, 0.5, 0.00019, 0.017} {
				s.Tick(rec, dt)
				Expect(s.Accumulator()).To(BeNumerically(">=", 0))
				Expect(s.Accumulator()).To(BeNumerically("<", s.FixedStep()))
			}
		})
	})

	Describe("Toggle", func() {
		It("flips the mode and clears the accumulator", func() {
			s := sim.NewScheduler(sim.Precision, 0.25)
			s.Tick(rec, 0.125)
			Expect(s.Accumulator()).To(Equal(0.125))

			Expect(s.Toggle()).To(Equal(sim.RealTime))
			Expect(s.Accumulator()).To(BeZero())
			Expect(s.Toggle()).To(Equal(sim.Precision))
			Expect(s.Mode()).To(Equal(sim.Precision))
		})
	})

	Describe("Sample", func() {
		It("returns zero first and then the gap between calls", func() {
			s := sim.NewScheduler(sim.RealTime, 0)
			t0 := time.Unix(1000, 0)
			Expect(s.Sample(t0)).To(BeZero())
			Expect(s.Sample(t0.Add(250 * time.Millisecond))).To(Equal(0.25))
			Expect(s.LastTickInstant()).To(Equal(t0.Add(250 * time.Millisecond)))
		})
	})

	It("names its modes", func() {
		Expect(sim.RealTime.String()).To(Equal("realtime"))
		Expect(sim.Precision.String()).To(Equal("precision"))
	})
})
