package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaosdp/internal/palette"
	"github.com/san-kum/chaosdp/internal/physics"
	"github.com/san-kum/chaosdp/internal/sim"
)

func rad(deg float64) float64 { return deg * math.Pi / 180 }

var _ = Describe("Set", func() {
	var set *sim.Set

	BeforeEach(func() {
		set = sim.NewSet(sim.DefaultOptions())
	})

	Describe("SetDefault", func() {
		It("holds one white pendulum with a trail", func() {
			Expect(set.Population()).To(Equal(sim.PopulationDefault))
			Expect(set.Len()).To(Equal(1))

			dp := set.At(0)
			Expect(dp.Tag.Trail).To(BeTrue())
			Expect(dp.Tag.Color).To(Equal(sim.DefaultColor))
		})

		It("starts at rest at 120 degrees", func() {
			dp := set.At(0)
			Expect(dp.Top().Angle()).To(Equal(rad(120)))
			Expect(dp.Bottom().Angle()).To(Equal(rad(120)))
			Expect(dp.Top().AngularVelocity()).To(BeZero())
			Expect(dp.Bottom().AngularVelocity()).To(BeZero())
		})

		It("uses the default links", func() {
			dp := set.At(0)
			Expect(dp.Top().Mass()).To(Equal(10.0))
			Expect(dp.Top().Length()).To(Equal(2.0))
			Expect(dp.Bottom().Mass()).To(Equal(20.0))
			Expect(dp.Bottom().Length()).To(Equal(1.0))
		})
	})

	Describe("SetChaos", func() {
		BeforeEach(func() {
			set.SetChaos()
		})

		It("holds 1000 pendulums without trails", func() {
			Expect(set.Population()).To(Equal(sim.PopulationChaos))
			Expect(set.Len()).To(Equal(1000))
			for _, dp := range set.Pendulums() {
				Expect(dp.Tag.Trail).To(BeFalse())
			}
		})

		It("spreads start angles by the increment", func() {
			Expect(set.At(0).Top().Angle()).To(Equal(rad(120)))
			Expect(set.At(999).Top().Angle()).To(BeNumerically("~", rad(120.0999), 1e-12))
			Expect(set.At(999).Bottom().Angle()).To(BeNumerically("~", rad(120.0999), 1e-12))
		})

		It("colors members along the rainbow", func() {
			Expect(set.At(0).Tag.Color).To(Equal(palette.Rainbow(0)))
			Expect(set.At(500).Tag.Color).To(Equal(palette.Rainbow(0.5)))
			Expect(set.At(999).Tag.Color).To(Equal(palette.Rainbow(0.999)))
		})
	})

	Describe("Generation", func() {
		It("counts every rebuild, even of the same population", func() {
			g := set.Generation()
			set.SetDefault()
			Expect(set.Generation()).To(Equal(g + 1))
			set.SetChaos()
			Expect(set.Generation()).To(Equal(g + 2))
		})
	})

	Describe("switching populations", func() {
		It("discards all prior state", func() {
			set.SetChaos()
			for i := 0; i < 100; i++ {
				set.Advance(0.01)
			}
			set.SetDefault()
			Expect(set.Len()).To(Equal(1))
			Expect(set.At(0).Top().Angle()).To(Equal(rad(120)))
			Expect(set.At(0).Top().AngularVelocity()).To(BeZero())

			set.Advance(0.01)
			set.SetChaos()
			Expect(set.Len()).To(Equal(1000))
			Expect(set.At(0).Top().AngularVelocity()).To(BeZero())
		})
	})

	Describe("Advance", func() {
		It("matches stepping each member alone", func() {
			opts := sim.DefaultOptions()
			opts.ChaosCount = 10
			small := sim.NewSet(opts)
			small.SetChaos()

			ref := make([]*physics.DoublePendulum, 10)
			for i := range ref {
				ref[i] = physics.NewDoublePendulum(opts.Model, rad(120+1e-4*float64(i)))
			}

			for k := 0; k < 50; k++ {
				small.Advance(1e-3)
				for _, dp := range ref {
					dp.Step(1e-3)
				}
			}
			for i, dp := range ref {
				Expect(small.At(i).State()).To(Equal(dp.State()))
			}
		})

		It("gives the same result with several workers", func() {
			serial := sim.NewSet(sim.DefaultOptions())
			serial.SetChaos()

			opts := sim.DefaultOptions()
			opts.Workers = 4
			parallel := sim.NewSet(opts)
			parallel.SetChaos()

			for k := 0; k < 20; k++ {
				serial.Advance(2e-4)
				parallel.Advance(2e-4)
			}
			for i := 0; i < serial.Len(); i++ {
				Expect(parallel.At(i).State()).To(Equal(serial.At(i).State()))
			}
		})

		It("leaves a zero step as a no-op", func() {
			before := set.At(0).State()
			set.Advance(0)
			Expect(set.At(0).State()).To(Equal(before))
		})
	})
})
