package fishing

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pvp"
)

// Outcome is what a bobber is attached to when it is retrieved.
type Outcome uint8

const (
	// Nothing means the bobber is in the air or floating freely.
	Nothing Outcome = iota
	// HookedEntity means the bobber hooked a living entity.
	HookedEntity
	// HookedItem means the bobber hooked an item entity.
	HookedItem
	// Caught means a fish bit.
	Caught
	// InGround means the bobber is stuck in a block.
	InGround
)

// RetrievalCost returns the rod durability spent retrieving a bobber with
// outcome o.
func RetrievalCost(o Outcome, rules pvp.Ruleset) int {
	switch o {
	case HookedEntity:
		if rules.Legacy() {
			return 3
		}
		return 5
	case HookedItem:
		return 3
	case Caught:
		return 1
	case InGround:
		return 2
	default:
		return 0
	}
}

// Bobber is a cast fishing bobber living in the world.
type Bobber interface {
	// Outcome reports what the bobber is currently attached to.
	Outcome() Outcome
	// Remove removes the bobber from the world.
	Remove()
	// Removed reports whether the bobber has left the world, through Remove
	// or otherwise.
	Removed() bool
}

// Launcher puts a bobber into the world.
type Launcher interface {
	Launch(c Caster, pos, vel mgl64.Vec3) Bobber
}

// Float is a Bobber that exists only as a record of its launch. Hosts
// without a bobber entity use it through FloatLauncher and report outcomes
// with SetOutcome.
type Float struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3

	outcome Outcome
	removed bool
}

// Outcome ...
func (f *Float) Outcome() Outcome {
	return f.outcome
}

// SetOutcome changes what the float is attached to.
func (f *Float) SetOutcome(o Outcome) {
	f.outcome = o
}

// Remove ...
func (f *Float) Remove() {
	f.removed = true
}

// Removed ...
func (f *Float) Removed() bool {
	return f.removed
}

// FloatLauncher is a Launcher creating Floats.
type FloatLauncher struct{}

// Launch ...
func (FloatLauncher) Launch(_ Caster, pos, vel mgl64.Vec3) Bobber {
	return &Float{Position: pos, Velocity: vel}
}
