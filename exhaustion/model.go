// Package exhaustion implements the vanilla food model: exhaustion accrues
// from movement, combat and status effects and is converted into saturation
// and food loss every tick.
package exhaustion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pvp"
)

const (
	// MaxExhaustion is the upper bound of the exhaustion level.
	MaxExhaustion float32 = 40
	// Threshold is the amount of exhaustion converted into one point of
	// saturation or food.
	Threshold float32 = 4
	// DefaultSaturation is the saturation of a player that just joined.
	DefaultSaturation float32 = 5
)

// Hunger is the per-player exhaustion state. Food itself stays on the host
// player and is accessed through Body.
type Hunger struct {
	Exhaustion float32
	Saturation float32

	// host is the host saturation seen by the last Absorb.
	host     float64
	observed bool
}

// Absorb adds the saturation the host gained since the previous call, for
// example from eating, to h. Saturation never exceeds food. Losses on the
// host side are ignored since h does its own accounting. The first call
// only records host.
func (h *Hunger) Absorb(host float64, food int) {
	if h.observed && host > h.host {
		h.Saturation = min(h.Saturation+float32(host-h.host), float32(food))
	}
	h.host, h.observed = host, true
}

// Body is the view of a player the food model reads and writes.
type Body interface {
	// Invulnerable reports whether the game mode prevents damage, in which
	// case no exhaustion is gained or spent.
	Invulnerable() bool
	Food() int
	SetFood(level int)
	OnGround() bool
	Sprinting() bool
	// InWater reports whether the block at the player's feet is water.
	InWater() bool
}

// DamageKind is the cause of damage, carrying the base exhaustion it costs.
type DamageKind interface {
	Exhaustion() float32
}

// Model applies the food rules of a Ruleset.
type Model struct {
	Rules pvp.Ruleset
}

// Add raises an ExhaustEvent through e and, unless it is cancelled, adds its
// amount to h. The result is capped at MaxExhaustion. e may be nil.
func (m Model) Add(h *Hunger, body Body, amount float32, e pvp.Emitter) {
	if body.Invulnerable() {
		return
	}
	ev := &ExhaustEvent{Amount: amount}
	if e != nil && !e.Emit(ev) {
		return
	}
	h.Exhaustion = min(MaxExhaustion, h.Exhaustion+ev.Amount)
}

// Tick converts one Threshold of exhaustion into the loss of a saturation
// point, or of a food point once saturation is depleted. Food is never lost
// on peaceful.
func (m Model) Tick(h *Hunger, body Body, d pvp.Difficulty) {
	if body.Invulnerable() || h.Exhaustion <= Threshold {
		return
	}
	h.Exhaustion -= Threshold
	if h.Saturation > 0 {
		h.Saturation = max(h.Saturation-1, 0)
	} else if d != pvp.Peaceful {
		body.SetFood(max(body.Food()-1, 0))
	}
}

// Move charges the exhaustion of moving between two positions. Jumps cost a
// flat amount, and distance costs while sprinting on the ground or swimming.
func (m Model) Move(h *Hunger, body Body, from, to mgl64.Vec3, e pvp.Emitter) {
	d := to.Sub(from)
	onGround, sprinting := body.OnGround(), body.Sprinting()

	if d.Y() > 0 && onGround {
		m.Add(h, body, m.jumpCost(sprinting), e)
	}

	if onGround {
		if l := centimetres(math.Hypot(d.X(), d.Z())); l > 0 {
			var factor float32
			if sprinting {
				factor = 0.1
			}
			m.Add(h, body, factor*float32(l)*0.01, e)
		}
	} else if body.InWater() {
		if l := centimetres(d.Len()); l > 0 {
			m.Add(h, body, 0.01*float32(l)*0.01, e)
		}
	}
}

func (m Model) jumpCost(sprinting bool) float32 {
	switch {
	case sprinting && m.Rules.Legacy():
		return 0.8
	case sprinting:
		return 0.2
	case m.Rules.Legacy():
		return 0.2
	default:
		return 0.05
	}
}

// Attack charges the exhaustion of attacking an entity.
func (m Model) Attack(h *Hunger, body Body, e pvp.Emitter) {
	m.Add(h, body, m.pick(0.3, 0.1), e)
}

// Damage charges the exhaustion of taking damage of the given kind. Legacy
// rules triple the base cost.
func (m Model) Damage(h *Hunger, body Body, kind DamageKind, e pvp.Emitter) {
	mul := float32(1)
	if m.Rules.Legacy() {
		mul = 3
	}
	m.Add(h, body, kind.Exhaustion()*mul, e)
}

// HungerEffect charges one tick of the Hunger status effect at the given
// amplifier (level - 1).
func (m Model) HungerEffect(h *Hunger, body Body, amplifier int, e pvp.Emitter) {
	m.Add(h, body, m.pick(0.025, 0.005)*float32(amplifier+1), e)
}

// BreakBlock charges the exhaustion of breaking a block.
func (m Model) BreakBlock(h *Hunger, body Body, e pvp.Emitter) {
	m.Add(h, body, m.pick(0.025, 0.005), e)
}

func (m Model) pick(legacy, modern float32) float32 {
	if m.Rules.Legacy() {
		return legacy
	}
	return modern
}

// centimetres rounds a distance in blocks to whole hundredths.
func centimetres(dist float64) int {
	return int(math.Round(dist * 100))
}
