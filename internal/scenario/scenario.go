// Package scenario provides named preset body sets for seeding the
// simulation: a solar system, a binary star system, the classic
// three-body configuration, a galaxy collision, and an asteroid
// impact. Scenario data is external to the engine; builders only
// return bodies for the caller to add.
package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/cosmiclab/internal/physics"
)

// Builder constructs the body set for one scenario. Builders that use
// randomness draw from rng so repeated loads are reproducible under a
// fixed seed.
type Builder func(rng *rand.Rand) ([]*physics.Body, error)

var builders = map[string]Builder{
	"solar-system":     SolarSystem,
	"binary-system":    BinarySystem,
	"three-body":       ThreeBody,
	"galaxy-collision": GalaxyCollision,
	"asteroid-impact":  AsteroidImpact,
}

// Names lists the available scenarios in stable order.
func Names() []string {
	return []string{"solar-system", "binary-system", "three-body", "galaxy-collision", "asteroid-impact"}
}

// Build constructs the named scenario with the given seed.
func Build(name string, seed int64) ([]*physics.Body, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s (available: %v)", name, Names())
	}
	return b(rand.New(rand.NewSource(seed)))
}

var (
	sunColor    = physics.Color{R: 255, G: 255, B: 100}
	planetColor = physics.Color{R: 100, G: 150, B: 255}
	rockColor   = physics.Color{R: 150, G: 100, B: 50}
)

// SolarSystem is an anchored sun with eight planets placed at
// circular-orbit speeds sqrt(G·M/r) for G=1.
func SolarSystem(rng *rand.Rand) ([]*physics.Body, error) {
	const sunMass = 5000.0

	sun, err := physics.NewBody("Sun", sunMass, physics.Vec2{}, physics.Vec2{}, 40, sunColor)
	if err != nil {
		return nil, err
	}
	sun.Anchor = true
	bodies := []*physics.Body{sun}

	planets := []struct {
		name     string
		distance float64
		mass     float64
		radius   float64
		color    physics.Color
	}{
		{"Mercury", 100, 8, 6, physics.Color{R: 169, G: 169, B: 169}},
		{"Venus", 140, 12, 8, physics.Color{R: 255, G: 198, B: 73}},
		{"Earth", 180, 15, 10, physics.Color{R: 100, G: 149, B: 237}},
		{"Mars", 240, 10, 7, physics.Color{R: 205, G: 92, B: 92}},
		{"Jupiter", 320, 50, 25, physics.Color{R: 255, G: 165, B: 79}},
		{"Saturn", 400, 40, 20, physics.Color{R: 250, G: 230, B: 144}},
		{"Uranus", 500, 30, 15, physics.Color{R: 64, G: 224, B: 208}},
		{"Neptune", 600, 32, 13, physics.Color{R: 30, G: 144, B: 255}},
	}

	for _, p := range planets {
		v := math.Sqrt(sunMass / p.distance)
		body, err := physics.NewBody(p.name, p.mass,
			physics.Vec2{X: p.distance}, physics.Vec2{Y: v}, p.radius, p.color)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, body)
	}

	return bodies, nil
}

// BinarySystem is two stars orbiting their barycenter with three
// circumbinary planets.
func BinarySystem(rng *rand.Rand) ([]*physics.Body, error) {
	const (
		mass1      = 150.0
		mass2      = 120.0
		separation = 100.0
		orbitSpeed = 2.0
	)
	total := mass1 + mass2

	star1, err := physics.NewBody("Star A", mass1,
		physics.Vec2{X: -separation * mass2 / total},
		physics.Vec2{Y: orbitSpeed * mass2 / total},
		25, physics.Color{R: 255, G: 200, B: 100})
	if err != nil {
		return nil, err
	}
	star2, err := physics.NewBody("Star B", mass2,
		physics.Vec2{X: separation * mass1 / total},
		physics.Vec2{Y: -orbitSpeed * mass1 / total},
		22, physics.Color{R: 255, G: 150, B: 150})
	if err != nil {
		return nil, err
	}
	bodies := []*physics.Body{star1, star2}

	planets := []struct {
		name     string
		distance float64
		mass     float64
		radius   float64
		speed    float64
	}{
		{"Planet I", 200, 30, 12, 1.5},
		{"Planet II", 280, 40, 15, 1.2},
		{"Planet III", 380, 25, 10, 0.9},
	}
	for _, p := range planets {
		body, err := physics.NewBody(p.name, p.mass,
			physics.Vec2{X: p.distance}, physics.Vec2{Y: p.speed}, p.radius, planetColor)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, body)
	}

	return bodies, nil
}

// ThreeBody is three equal masses in a chaotic configuration.
func ThreeBody(rng *rand.Rand) ([]*physics.Body, error) {
	const mass = 100.0

	setups := []struct {
		name  string
		pos   physics.Vec2
		vel   physics.Vec2
		color physics.Color
	}{
		{"Body 1", physics.Vec2{X: -50}, physics.Vec2{Y: 2}, physics.Color{R: 255, G: 100, B: 100}},
		{"Body 2", physics.Vec2{X: 50}, physics.Vec2{Y: 2}, physics.Color{R: 100, G: 255, B: 100}},
		{"Body 3", physics.Vec2{Y: 50}, physics.Vec2{Y: -4}, physics.Color{R: 100, G: 100, B: 255}},
	}

	bodies := make([]*physics.Body, 0, len(setups))
	for _, s := range setups {
		b, err := physics.NewBody(s.name, mass, s.pos, s.vel, 20, s.color)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// GalaxyCollision is two star clusters around central black holes on a
// head-on course.
func GalaxyCollision(rng *rand.Rand) ([]*physics.Body, error) {
	type galaxy struct {
		name     string
		center   physics.Vec2
		velocity physics.Vec2
		rotation float64
		color    physics.Color
	}
	galaxies := []galaxy{
		{"1", physics.Vec2{X: -200}, physics.Vec2{X: 0.5}, 0.02, physics.Color{R: 100, G: 100, B: 255}},
		{"2", physics.Vec2{X: 200}, physics.Vec2{X: -0.5}, -0.02, physics.Color{R: 255, G: 100, B: 100}},
	}

	var bodies []*physics.Body
	for i, g := range galaxies {
		bh, err := physics.NewBody(fmt.Sprintf("Black Hole %s", g.name), 500,
			g.center, g.velocity, 20, physics.Color{R: 50, G: 50, B: 50})
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, bh)

		for j := 0; j < 25; j++ {
			angle := rng.Float64() * 2 * math.Pi
			radius := 20 + rng.Float64()*130

			// Spiral arm pattern.
			spiral := angle + radius*0.02
			pos := g.center.Add(physics.Vec2{
				X: radius * math.Cos(spiral),
				Y: radius * math.Sin(spiral),
			})
			orbital := g.rotation * radius
			vel := g.velocity.Add(physics.Vec2{
				X: -orbital * math.Sin(spiral),
				Y: orbital * math.Cos(spiral),
			})

			star, err := physics.NewBody(
				fmt.Sprintf("Star G%d-%d", i+1, j+1), 25, pos, vel, 8,
				jitterColor(rng, g.color, 30))
			if err != nil {
				return nil, err
			}
			bodies = append(bodies, star)
		}
	}
	return bodies, nil
}

// AsteroidImpact is a stationary planet with an inbound asteroid, an
// orbiting debris field, and a few distant bystanders.
func AsteroidImpact(rng *rand.Rand) ([]*physics.Body, error) {
	planet, err := physics.NewBody("Planet", 100, physics.Vec2{}, physics.Vec2{}, 25, planetColor)
	if err != nil {
		return nil, err
	}
	asteroid, err := physics.NewBody("Asteroid", 50,
		physics.Vec2{X: -300, Y: -100}, physics.Vec2{X: 8, Y: 3}, 12, rockColor)
	if err != nil {
		return nil, err
	}
	bodies := []*physics.Body{planet, asteroid}

	for i := 0; i < 15; i++ {
		angle := rng.Float64() * 2 * math.Pi
		distance := 40 + rng.Float64()*40
		pos := physics.Vec2{X: distance * math.Cos(angle), Y: distance * math.Sin(angle)}
		speed := 0.2 * math.Sqrt(planet.Mass/distance)
		vel := physics.Vec2{X: -speed * math.Sin(angle), Y: speed * math.Cos(angle)}

		debris, err := physics.NewBody(fmt.Sprintf("Debris-%d", i+1), 2, pos, vel, 5,
			physics.Color{
				R: uint8(100 + rng.Intn(100)),
				G: uint8(80 + rng.Intn(70)),
				B: uint8(50 + rng.Intn(70)),
			})
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, debris)
	}

	for i := 0; i < 5; i++ {
		angle := rng.Float64() * 2 * math.Pi
		distance := 200 + rng.Float64()*200
		obj, err := physics.NewBody(fmt.Sprintf("Object-%d", i+1), 15,
			physics.Vec2{X: distance * math.Cos(angle), Y: distance * math.Sin(angle)},
			physics.Vec2{X: 0.5, Y: 0.5}, 10,
			physics.Color{
				R: uint8(150 + rng.Intn(105)),
				G: uint8(150 + rng.Intn(105)),
				B: uint8(150 + rng.Intn(105)),
			})
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, obj)
	}

	return bodies, nil
}

func jitterColor(rng *rand.Rand, base physics.Color, spread int) physics.Color {
	j := func(c uint8) uint8 {
		v := int(c) + rng.Intn(2*spread+1) - spread
		if v < 50 {
			v = 50
		}
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	return physics.Color{R: j(base.R), G: j(base.G), B: j(base.B)}
}
