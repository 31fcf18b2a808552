package fishing

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/sound"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pvp"
)

// Line is the per-player fishing state: the live bobber, if any, and the
// hand that cast it.
type Line struct {
	bobber Bobber
	hand   pvp.Hand
}

// Bobber returns the live bobber, or nil if none is cast.
func (l *Line) Bobber() Bobber {
	l.prune()
	return l.bobber
}

// Cast reports whether a bobber is live.
func (l *Line) Cast() bool {
	return l.Bobber() != nil
}

// Hand returns the hand that cast the live bobber.
func (l *Line) Hand() pvp.Hand {
	return l.hand
}

// Detach removes the live bobber when the line leaves its session.
func (l *Line) Detach(*pvp.Session) {
	if l.bobber != nil {
		l.bobber.Remove()
	}
	l.clear()
}

// prune forgets a bobber that left the world without being retrieved.
func (l *Line) prune() {
	if l.bobber != nil && l.bobber.Removed() {
		l.clear()
	}
}

func (l *Line) clear() {
	l.bobber = nil
	l.hand = pvp.MainHand
}

// Caster is an entity able to cast a bobber. *player.Player implements it.
type Caster interface {
	pvp.Holder
	Position() mgl64.Vec3
	Rotation() cube.Rotation
	EyeHeight() float64
	GameMode() world.GameMode
}

// SoundPlayer plays a sound at a position to every viewer of it. *world.Tx
// implements it.
type SoundPlayer interface {
	PlaySound(pos mgl64.Vec3, s world.Sound)
}

// Machine drives the Idle and Cast states of a Line.
type Machine struct {
	Rules    pvp.Ruleset
	Damager  pvp.ItemDamager
	Launcher Launcher
	// Sounds plays the cast and retrieve sounds at the caster. Sounds are
	// not played if it is nil.
	Sounds SoundPlayer
	// Random perturbs the launch velocity. Defaults to math/rand/v2.
	Random Gaussian
	// Spread is the initial spread of ShootEvent. Zero means 1.
	Spread float64
	// CastSound and RetrieveSound default to sound.ItemThrow.
	CastSound, RetrieveSound world.Sound
}

// Use handles c using a rod in hand. Without a live bobber this casts one,
// otherwise it retrieves the live bobber. Use reports whether the line
// changed state.
func (m Machine) Use(l *Line, c Caster, hand pvp.Hand, e pvp.Emitter) bool {
	if l.Cast() {
		return m.Retrieve(l, c, e)
	}
	return m.Cast(l, c, hand, e)
}

// Cast launches a bobber from c unless the emitted ShootEvent is cancelled.
func (m Machine) Cast(l *Line, c Caster, hand pvp.Hand, e pvp.Emitter) bool {
	if l.Cast() || m.Launcher == nil {
		return false
	}
	ev := &ShootEvent{Spread: m.spread()}
	if e != nil && !e.Emit(ev) {
		return false
	}

	rot := c.Rotation()
	pos := LaunchPosition(c.Position(), rot.Yaw(), c.EyeHeight())
	vel := LaunchVelocity(rot.Yaw(), rot.Pitch(), m.Rules, ev.Spread, m.random())

	b := m.Launcher.Launch(c, pos, vel)
	if b == nil {
		return false
	}
	l.bobber, l.hand = b, hand
	m.playSound(c, m.CastSound)
	return true
}

// Retrieve reels in the live bobber unless the emitted RetrieveEvent is
// cancelled. The rod in the casting hand loses the durability returned by
// RetrievalCost, except in game modes that have a creative inventory or
// cannot take damage.
func (m Machine) Retrieve(l *Line, c Caster, e pvp.Emitter) bool {
	b := l.Bobber()
	if b == nil {
		return false
	}
	if e != nil && !e.Emit(&RetrieveEvent{Bobber: b}) {
		return false
	}

	cost := RetrievalCost(b.Outcome(), m.Rules)
	if gm := c.GameMode(); m.Damager != nil && !gm.CreativeInventory() && gm.AllowsTakingDamage() {
		m.Damager.DamageItem(c, l.hand, cost)
	}
	b.Remove()
	l.clear()
	m.playSound(c, m.RetrieveSound)
	return true
}

func (m Machine) spread() float64 {
	if m.Spread == 0 {
		return 1
	}
	return m.Spread
}

func (m Machine) random() Gaussian {
	if m.Random == nil {
		return globalGaussian{}
	}
	return m.Random
}

func (m Machine) playSound(c Caster, s world.Sound) {
	if m.Sounds == nil {
		return
	}
	if s == nil {
		s = sound.ItemThrow{}
	}
	m.Sounds.PlaySound(c.Position(), s)
}
