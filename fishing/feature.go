package fishing

import (
	"reflect"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/pvp"
)

// Options configures the fishing feature.
type Options struct {
	// Spread is the initial spread of every cast. Zero means 1.
	Spread float64
	// Random perturbs launch velocities. Defaults to math/rand/v2.
	Random Gaussian
}

// NewFeature returns the fishing feature. It depends on a *pvp.Ruleset, a
// pvp.ItemDamager and a Launcher resource.
func NewFeature(opts Options) *pvp.Feature {
	return pvp.NewFeature("fishing").
		Requires(
			reflect.TypeFor[*pvp.Ruleset](),
			reflect.TypeFor[pvp.ItemDamager](),
			reflect.TypeFor[Launcher](),
		).
		Resource(&opts).
		OnJoin(func(s *pvp.Session) error {
			pvp.Add(s, &Line{})
			return nil
		}).
		Handler(&handler{}).
		Loop(&pruneLoop{}, 0, pvp.Before)
}

type handler struct {
	pvp.NopHandler
	Session  *pvp.Session
	Line     *Line           `pvp:"mut"`
	Rules    *pvp.Ruleset    `pvp:"res"`
	Damager  pvp.ItemDamager `pvp:"res"`
	Launcher Launcher        `pvp:"res"`
	Options  *Options        `pvp:"res"`
}

func (h *handler) HandleItemUse(ctx *player.Context) {
	p := ctx.Val()
	h.use(p, p.Tx())
}

// use casts or retrieves if c holds a rod in its main hand.
func (h *handler) use(c Caster, sounds SoundPlayer) bool {
	mainHand, _ := c.HeldItems()
	if !IsRod(mainHand) {
		return false
	}
	m := Machine{
		Rules:    *h.Rules,
		Damager:  h.Damager,
		Launcher: h.Launcher,
		Sounds:   sounds,
		Random:   h.Options.Random,
		Spread:   h.Options.Spread,
	}
	return m.Use(h.Line, c, pvp.MainHand, h.Session)
}

// pruneLoop forgets bobbers that left the world on their own.
type pruneLoop struct {
	Line *Line `pvp:"mut"`
}

func (l *pruneLoop) Run(*world.Tx) {
	l.Line.prune()
}
