package scenario_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cosmiclab/internal/physics"
	"github.com/san-kum/cosmiclab/internal/scenario"
)

var _ = Describe("Build", func() {
	It("rejects unknown scenario names", func() {
		_, err := scenario.Build("no-such-scene", 1)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown scenario"))
	})

	It("builds every listed scenario", func() {
		for _, name := range scenario.Names() {
			bodies, err := scenario.Build(name, 42)
			Expect(err).NotTo(HaveOccurred(), "scenario %s", name)
			Expect(bodies).NotTo(BeEmpty(), "scenario %s", name)
			for _, b := range bodies {
				Expect(b.Mass).To(BeNumerically(">", 0))
				Expect(b.Radius).To(BeNumerically(">", 0))
				Expect(b.Position.IsFinite()).To(BeTrue())
				Expect(b.Velocity.IsFinite()).To(BeTrue())
			}
		}
	})

	It("is reproducible for a fixed seed", func() {
		first, err := scenario.Build("galaxy-collision", 7)
		Expect(err).NotTo(HaveOccurred())
		second, err := scenario.Build("galaxy-collision", 7)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(HaveLen(len(first)))
		for i := range first {
			Expect(second[i].Position).To(Equal(first[i].Position))
			Expect(second[i].Velocity).To(Equal(first[i].Velocity))
			Expect(second[i].Mass).To(Equal(first[i].Mass))
		}
	})
})

var _ = Describe("SolarSystem", func() {
	var bodies []*physics.Body

	BeforeEach(func() {
		var err error
		bodies, err = scenario.Build("solar-system", 1)
		Expect(err).NotTo(HaveOccurred())
	})

	It("has an anchored sun and eight planets", func() {
		Expect(bodies).To(HaveLen(9))
		sun := bodies[0]
		Expect(sun.Name).To(Equal("Sun"))
		Expect(sun.Anchor).To(BeTrue())
		Expect(sun.Position).To(Equal(physics.Vec2{}))
	})

	It("places planets at circular-orbit speed", func() {
		sun := bodies[0]
		for _, p := range bodies[1:] {
			r := p.Position.Norm()
			want := math.Sqrt(sun.Mass / r)
			Expect(p.Velocity.Norm()).To(BeNumerically("~", want, 1e-9),
				"planet %s", p.Name)
		}
	})

	It("stays bound when stepped through the engine", func() {
		e := physics.NewEngine(physics.DefaultGravity)
		for _, b := range bodies {
			e.AddBody(b)
		}
		for i := 0; i < 500; i++ {
			e.Step(0.05)
		}
		Expect(e.Bodies()).NotTo(BeEmpty())
		for _, b := range e.Bodies() {
			Expect(b.Position.IsFinite()).To(BeTrue())
			if !b.Anchor {
				Expect(b.Position.Norm()).To(BeNumerically("<", 2000),
					"body %s escaped", b.Name)
			}
		}
	})
})

var _ = Describe("BinarySystem", func() {
	It("starts with zero net momentum between the stars", func() {
		bodies, err := scenario.Build("binary-system", 1)
		Expect(err).NotTo(HaveOccurred())

		p := bodies[0].Momentum().Add(bodies[1].Momentum())
		Expect(p.Norm()).To(BeNumerically("~", 0, 1e-9))
	})
})

var _ = Describe("GalaxyCollision", func() {
	It("builds two clusters of 26 bodies each", func() {
		bodies, err := scenario.Build("galaxy-collision", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(bodies).To(HaveLen(52))

		holes := 0
		for _, b := range bodies {
			if b.Mass == 500 {
				holes++
			}
		}
		Expect(holes).To(Equal(2))
	})
})
