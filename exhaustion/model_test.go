package exhaustion

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pvp"
)

type fakeBody struct {
	invulnerable bool
	food         int
	onGround     bool
	sprinting    bool
	inWater      bool
}

func (b *fakeBody) Invulnerable() bool { return b.invulnerable }
func (b *fakeBody) Food() int          { return b.food }
func (b *fakeBody) SetFood(level int)  { b.food = level }
func (b *fakeBody) OnGround() bool     { return b.onGround }
func (b *fakeBody) Sprinting() bool    { return b.sprinting }
func (b *fakeBody) InWater() bool      { return b.inWater }

// recorder is an Emitter that records every event and applies an optional
// listener to it.
type recorder struct {
	events []*ExhaustEvent
	listen func(*ExhaustEvent)
}

func (r *recorder) Emit(e pvp.CancellableEvent) bool {
	ev := e.(*ExhaustEvent)
	r.events = append(r.events, ev)
	if r.listen != nil {
		r.listen(ev)
	}
	return !ev.Cancelled()
}

type kind float32

func (k kind) Exhaustion() float32 { return float32(k) }

var (
	legacy = Model{Rules: pvp.Ruleset{Version: pvp.Legacy}}
	modern = Model{Rules: pvp.Ruleset{Version: pvp.Modern}}
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestTick(t *testing.T) {
	tests := []struct {
		name           string
		hunger         Hunger
		food           int
		difficulty     pvp.Difficulty
		invulnerable   bool
		wantExhaustion float32
		wantSaturation float32
		wantFood       int
	}{
		{"drains food without saturation", Hunger{Exhaustion: 40, Saturation: 0}, 20, pvp.Normal, false, 36, 0, 19},
		{"drains saturation first", Hunger{Exhaustion: 40, Saturation: 5}, 20, pvp.Normal, false, 36, 4, 20},
		{"saturation floored at zero", Hunger{Exhaustion: 5, Saturation: 0.5}, 20, pvp.Normal, false, 1, 0, 20},
		{"peaceful keeps food", Hunger{Exhaustion: 40, Saturation: 0}, 20, pvp.Peaceful, false, 36, 0, 20},
		{"food floored at zero", Hunger{Exhaustion: 10, Saturation: 0}, 0, pvp.Hard, false, 6, 0, 0},
		{"below threshold", Hunger{Exhaustion: 4, Saturation: 0}, 20, pvp.Normal, false, 4, 0, 20},
		{"invulnerable", Hunger{Exhaustion: 40, Saturation: 0}, 20, pvp.Normal, true, 40, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.hunger
			body := &fakeBody{food: tt.food, invulnerable: tt.invulnerable}
			legacy.Tick(&h, body, tt.difficulty)

			if !approx(h.Exhaustion, tt.wantExhaustion) {
				t.Errorf("exhaustion = %v, want %v", h.Exhaustion, tt.wantExhaustion)
			}
			if !approx(h.Saturation, tt.wantSaturation) {
				t.Errorf("saturation = %v, want %v", h.Saturation, tt.wantSaturation)
			}
			if body.food != tt.wantFood {
				t.Errorf("food = %d, want %d", body.food, tt.wantFood)
			}
		})
	}
}

func TestTickConvertsOneThresholdPerTick(t *testing.T) {
	h := Hunger{Exhaustion: 12.5}
	body := &fakeBody{food: 20}
	for range 2 {
		modern.Tick(&h, body, pvp.Normal)
	}
	if !approx(h.Exhaustion, 4.5) {
		t.Errorf("exhaustion = %v, want 4.5", h.Exhaustion)
	}
	if body.food != 18 {
		t.Errorf("food = %d, want 18", body.food)
	}
}

func TestAddClampsAtMaximum(t *testing.T) {
	h := Hunger{Exhaustion: 39.9}
	legacy.Add(&h, &fakeBody{}, 5, nil)
	if h.Exhaustion != MaxExhaustion {
		t.Fatalf("exhaustion = %v, want %v", h.Exhaustion, MaxExhaustion)
	}
}

func TestAddInvulnerableIsSilent(t *testing.T) {
	h := Hunger{}
	rec := &recorder{}
	legacy.Add(&h, &fakeBody{invulnerable: true}, 1, rec)
	if h.Exhaustion != 0 || len(rec.events) != 0 {
		t.Fatalf("exhaustion = %v, events = %d, want no change", h.Exhaustion, len(rec.events))
	}
}

func TestAddListeners(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		h := Hunger{Exhaustion: 1}
		rec := &recorder{listen: func(e *ExhaustEvent) { e.Cancel() }}
		legacy.Add(&h, &fakeBody{}, 2, rec)
		if h.Exhaustion != 1 {
			t.Fatalf("exhaustion = %v, want 1", h.Exhaustion)
		}
	})
	t.Run("mutated", func(t *testing.T) {
		h := Hunger{}
		rec := &recorder{listen: func(e *ExhaustEvent) { e.Amount *= 2 }}
		legacy.Add(&h, &fakeBody{}, 1.5, rec)
		if h.Exhaustion != 3 {
			t.Fatalf("exhaustion = %v, want 3", h.Exhaustion)
		}
	})
}

func TestJumpCost(t *testing.T) {
	from := mgl64.Vec3{0, 64, 0}
	to := mgl64.Vec3{0, 64.42, 0}

	tests := []struct {
		model     Model
		sprinting bool
		want      float32
	}{
		{legacy, true, 0.8},
		{legacy, false, 0.2},
		{modern, true, 0.2},
		{modern, false, 0.05},
	}
	for _, tt := range tests {
		h := Hunger{}
		tt.model.Move(&h, &fakeBody{onGround: true, sprinting: tt.sprinting}, from, to, nil)
		if !approx(h.Exhaustion, tt.want) {
			t.Errorf("%v sprinting=%v: exhaustion = %v, want %v", tt.model.Rules.Version, tt.sprinting, h.Exhaustion, tt.want)
		}
	}
}

func TestLegacySprintJumpCostsFourTimesModern(t *testing.T) {
	from, to := mgl64.Vec3{0, 64, 0}, mgl64.Vec3{0, 65, 0}
	body := &fakeBody{onGround: true, sprinting: true}

	var l, m Hunger
	legacy.Move(&l, body, from, to, nil)
	modern.Move(&m, body, from, to, nil)
	if !approx(l.Exhaustion, 4*m.Exhaustion) {
		t.Fatalf("legacy = %v, modern = %v, want ratio 4", l.Exhaustion, m.Exhaustion)
	}
}

func TestMoveDistance(t *testing.T) {
	tests := []struct {
		name string
		body fakeBody
		to   mgl64.Vec3
		want float32
	}{
		{"sprinting on ground", fakeBody{onGround: true, sprinting: true}, mgl64.Vec3{3, 0, 4}, 0.5},
		{"walking is free", fakeBody{onGround: true}, mgl64.Vec3{3, 0, 4}, 0},
		{"swimming", fakeBody{inWater: true}, mgl64.Vec3{0, 2, 0}, 0.02},
		{"swimming ignores sprint", fakeBody{inWater: true, sprinting: true}, mgl64.Vec3{1, 2, 2}, 0.03},
		{"airborne outside water", fakeBody{sprinting: true}, mgl64.Vec3{3, 0, 4}, 0},
		{"below a centimetre", fakeBody{onGround: true, sprinting: true}, mgl64.Vec3{0.004, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hunger{}
			body := tt.body
			modern.Move(&h, &body, mgl64.Vec3{}, tt.to, nil)
			if !approx(h.Exhaustion, tt.want) {
				t.Fatalf("exhaustion = %v, want %v", h.Exhaustion, tt.want)
			}
		})
	}
}

func TestCombatCosts(t *testing.T) {
	tests := []struct {
		name string
		run  func(Model, *Hunger, Body)
		leg  float32
		mod  float32
	}{
		{"attack", func(m Model, h *Hunger, b Body) { m.Attack(h, b, nil) }, 0.3, 0.1},
		{"damage", func(m Model, h *Hunger, b Body) { m.Damage(h, b, kind(0.1), nil) }, 0.3, 0.1},
		{"hunger effect", func(m Model, h *Hunger, b Body) { m.HungerEffect(h, b, 1, nil) }, 0.05, 0.01},
		{"block break", func(m Model, h *Hunger, b Body) { m.BreakBlock(h, b, nil) }, 0.025, 0.005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l, m Hunger
			tt.run(legacy, &l, &fakeBody{})
			tt.run(modern, &m, &fakeBody{})
			if !approx(l.Exhaustion, tt.leg) {
				t.Errorf("legacy = %v, want %v", l.Exhaustion, tt.leg)
			}
			if !approx(m.Exhaustion, tt.mod) {
				t.Errorf("modern = %v, want %v", m.Exhaustion, tt.mod)
			}
		})
	}
}

func TestMoveEmitsPerCharge(t *testing.T) {
	h := Hunger{}
	rec := &recorder{}
	legacy.Move(&h, &fakeBody{onGround: true, sprinting: true}, mgl64.Vec3{}, mgl64.Vec3{1, 1, 0}, rec)
	if len(rec.events) != 2 {
		t.Fatalf("events = %d, want jump and distance", len(rec.events))
	}
	if !approx(rec.events[0].Amount, 0.8) || !approx(rec.events[1].Amount, 0.1) {
		t.Fatalf("amounts = %v, %v", rec.events[0].Amount, rec.events[1].Amount)
	}
}

func TestAbsorb(t *testing.T) {
	h := &Hunger{Saturation: DefaultSaturation}

	h.Absorb(5, 20)
	if h.Saturation != DefaultSaturation {
		t.Fatalf("first observation changed saturation to %v", h.Saturation)
	}

	// Native food loss being cancelled zeroes the host saturation.
	h.Absorb(0, 20)
	if h.Saturation != DefaultSaturation {
		t.Fatalf("host loss changed saturation to %v", h.Saturation)
	}

	// Eating bread grants 6 saturation on the host.
	h.Absorb(6, 20)
	if !approx(h.Saturation, 11) {
		t.Fatalf("saturation = %v, want 11", h.Saturation)
	}

	h.Absorb(20, 14)
	if h.Saturation != 14 {
		t.Fatalf("saturation = %v, want it capped at food 14", h.Saturation)
	}
}

func TestAbsorbDelaysFoodLoss(t *testing.T) {
	h := &Hunger{}
	body := &fakeBody{food: 20}
	h.Absorb(0, body.food)
	h.Absorb(2.4, body.food)

	// 2.4 saturation absorbs three conversions, the fourth costs food.
	for i := range 4 {
		if i == 3 && body.food != 20 {
			t.Fatalf("food lost after %d conversions", i)
		}
		h.Exhaustion = Threshold + 1
		modern.Tick(h, body, pvp.Normal)
	}
	if body.food != 19 {
		t.Fatalf("food = %d, want 19 after saturation ran out", body.food)
	}
}
