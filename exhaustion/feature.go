package exhaustion

import (
	"reflect"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pvp"
)

// Options configures the exhaustion feature.
type Options struct {
	// KeepNativeHunger leaves Dragonfly's own food loss in place. By default
	// it is cancelled so that food is only drained by this feature.
	KeepNativeHunger bool
}

// NewFeature returns the exhaustion feature. It depends on a *pvp.Ruleset
// and a pvp.DifficultyProvider resource.
func NewFeature(opts Options) *pvp.Feature {
	return pvp.NewFeature("exhaustion").
		Requires(
			reflect.TypeFor[*pvp.Ruleset](),
			reflect.TypeFor[pvp.DifficultyProvider](),
		).
		Resource(&opts).
		OnJoin(func(s *pvp.Session) error {
			pvp.Add(s, &Hunger{Saturation: DefaultSaturation})
			return nil
		}).
		Handler(&handler{}).
		Loop(&tickLoop{}, 0, pvp.Default).
		Loop(&hungerEffectLoop{}, 0, pvp.Default)
}

// Exhaust adds exhaustion to the player of s outside of the feature's own
// handlers, for example from another feature. body is usually obtained with
// PlayerBody. It reports false if s does not carry the exhaustion state.
func Exhaust(s *pvp.Session, body Body, amount float32) bool {
	if s == nil {
		return false
	}
	h := pvp.Get[Hunger](s)
	rules, ok := pvp.Resource[*pvp.Ruleset](s.Manager())
	if h == nil || !ok {
		return false
	}
	Model{Rules: *rules}.Add(h, body, amount, s)
	return true
}

type handler struct {
	pvp.NopHandler
	Session *pvp.Session
	Hunger  *Hunger      `pvp:"mut"`
	Rules   *pvp.Ruleset `pvp:"res"`
	Options *Options     `pvp:"res"`
}

func (h *handler) model() Model {
	return Model{Rules: *h.Rules}
}

func (h *handler) HandleMove(ctx *player.Context, newPos mgl64.Vec3, _ cube.Rotation) {
	p := ctx.Val()
	h.model().Move(h.Hunger, PlayerBody(p.Tx(), p), p.Position(), newPos, h.Session)
}

func (h *handler) HandleBlockBreak(ctx *player.Context, _ cube.Pos, _ *[]item.Stack, _ *int) {
	p := ctx.Val()
	h.model().BreakBlock(h.Hunger, PlayerBody(p.Tx(), p), h.Session)
}

func (h *handler) HandleAttackEntity(ctx *player.Context, _ world.Entity, _, _ *float64, _ *bool) {
	p := ctx.Val()
	h.model().Attack(h.Hunger, PlayerBody(p.Tx(), p), h.Session)
}

func (h *handler) HandleHurt(ctx *player.Context, _ *float64, immune bool, _ *time.Duration, src world.DamageSource) {
	if immune {
		return
	}
	p := ctx.Val()
	h.model().Damage(h.Hunger, PlayerBody(p.Tx(), p), SourceKind(src), h.Session)
}

func (h *handler) HandleFoodLoss(ctx *player.Context, _ int, _ *int) {
	if !h.Options.KeepNativeHunger {
		ctx.Cancel()
	}
}

// tickLoop picks up saturation gained through the host, then converts
// exhaustion into saturation and food loss.
type tickLoop struct {
	Session    *pvp.Session
	Hunger     *Hunger                `pvp:"mut"`
	Rules      *pvp.Ruleset           `pvp:"res"`
	Difficulty pvp.DifficultyProvider `pvp:"res"`
}

func (l *tickLoop) Run(tx *world.Tx) {
	p, ok := l.Session.Player(tx)
	if !ok {
		return
	}
	l.Hunger.Absorb(p.Data().Saturation, p.Food())
	Model{Rules: *l.Rules}.Tick(l.Hunger, PlayerBody(tx, p), l.Difficulty.Difficulty())
}

// hungerEffectLoop charges exhaustion while the Hunger effect is active.
type hungerEffectLoop struct {
	Session *pvp.Session
	Hunger  *Hunger      `pvp:"mut"`
	Rules   *pvp.Ruleset `pvp:"res"`
}

func (l *hungerEffectLoop) Run(tx *world.Tx) {
	p, ok := l.Session.Player(tx)
	if !ok {
		return
	}
	if amplifier, ok := hungerAmplifier(p); ok {
		Model{Rules: *l.Rules}.HungerEffect(l.Hunger, PlayerBody(tx, p), amplifier, l.Session)
	}
}

type effectHolder interface {
	Effect(t effect.Type) (effect.Effect, bool)
}

// hungerAmplifier returns the amplifier of the Hunger effect on p, which is
// its level minus one.
func hungerAmplifier(p effectHolder) (int, bool) {
	e, ok := p.Effect(effect.Hunger)
	if !ok {
		return 0, false
	}
	return e.Level() - 1, true
}
