// Package fishing implements the fishing rod: a use casts a bobber, and the
// next use retrieves it at the cost of rod durability.
package fishing

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pvp"
)

// Gaussian is a source of normally distributed numbers. *rand.Rand from
// math/rand/v2 implements it.
type Gaussian interface {
	NormFloat64() float64
}

type globalGaussian struct{}

func (globalGaussian) NormFloat64() float64 {
	return rand.NormFloat64()
}

// facing returns the horizontal direction components used to offset and
// launch the bobber.
func facing(yaw float64) (xDir, zDir float64) {
	r := mgl64.DegToRad(-yaw) - math.Pi
	return math.Sin(r), math.Cos(r)
}

// LaunchPosition returns the spawn position of a bobber cast by an entity at
// pos with the given yaw and eye height: its eye position, moved 0.3 blocks
// horizontally according to yaw.
func LaunchPosition(pos mgl64.Vec3, yaw, eyeHeight float64) mgl64.Vec3 {
	xDir, zDir := facing(yaw)
	return mgl64.Vec3{
		pos.X() - xDir*0.3,
		pos.Y() + eyeHeight,
		pos.Z() - zDir*0.3,
	}
}

// LaunchVelocity returns the velocity of a bobber cast with the given yaw and
// pitch, in blocks per second. spread scales the random deviation.
func LaunchVelocity(yaw, pitch float64, rules pvp.Ruleset, spread float64, g Gaussian) mgl64.Vec3 {
	var v mgl64.Vec3
	if rules.Modern() {
		v = modernVelocity(yaw, pitch, spread*0.0045, g)
	} else {
		v = legacyVelocity(yaw, pitch, spread*0.0075, g)
	}
	return v.Mul(pvp.TicksPerSecond)
}

func modernVelocity(yaw, pitch, spread float64, g Gaussian) mgl64.Vec3 {
	xDir, zDir := facing(yaw)
	p := mgl64.DegToRad(-pitch)
	yDir := -(math.Sin(p) / -math.Cos(p))

	v := mgl64.Vec3{-xDir, mgl64.Clamp(yDir, -5, 5), -zDir}
	base := 0.6/v.Len() + 0.5
	return mgl64.Vec3{
		v.X() * (base + g.NormFloat64()*spread),
		v.Y() * (base + g.NormFloat64()*spread),
		v.Z() * (base + g.NormFloat64()*spread),
	}
}

func legacyVelocity(yaw, pitch, spread float64, g Gaussian) mgl64.Vec3 {
	const maxVelocity = 0.4
	y, p := mgl64.DegToRad(yaw), mgl64.DegToRad(pitch)

	v := mgl64.Vec3{
		-math.Sin(y) * math.Cos(p) * maxVelocity,
		-math.Sin(p) * maxVelocity,
		math.Cos(y) * math.Cos(p) * maxVelocity,
	}
	noise := mgl64.Vec3{
		g.NormFloat64() * spread,
		g.NormFloat64() * spread,
		g.NormFloat64() * spread,
	}
	return v.Normalize().Add(noise).Mul(1.5)
}
