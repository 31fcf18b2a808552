package block

import (
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/pvp"
)

// Options configures the block feature. Zero values select the defaults.
type Options struct {
	// Item is the blocking item. Defaults to a shield.
	Item item.Stack
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// NewFeature returns the block feature. Besides its handler it registers
// the /swaphands command, which swaps hands through SwapHands.
func NewFeature(opts Options) *pvp.Feature {
	m := NewMachine()
	if !opts.Item.Empty() {
		m.BlockingItem = opts.Item
	}
	if opts.Debounce > 0 {
		m.Debounce = opts.Debounce
	}

	return pvp.NewFeature("block").
		Resource(&m).
		OnJoin(func(s *pvp.Session) error {
			pvp.Add(s, &Stance{})
			return nil
		}).
		Handler(&handler{}).
		Command(cmd.New("swaphands", "Swaps the items in your hands.", nil, swapCommand{}))
}

// SwapHands swaps the main hand and off-hand items of h unless a
// SwapHandsEvent emitted on s is cancelled. It reports whether the items
// were swapped.
func SwapHands(s *pvp.Session, h pvp.Holder) bool {
	if s != nil && !s.Emit(&SwapHandsEvent{Holder: h}) {
		return false
	}
	mainHand, offHand := h.HeldItems()
	h.SetHeldItems(offHand, mainHand)
	return true
}

type handler struct {
	pvp.NopHandler
	Session *pvp.Session
	Stance  *Stance  `pvp:"mut"`
	Machine *Machine `pvp:"res"`
}

func (h *handler) HandleItemUse(ctx *player.Context) {
	p := ctx.Val()
	mainHand, _ := p.HeldItems()
	h.Machine.Use(h.Stance, p, pvp.MainHand, mainHand, h.Session)
}

// HandleItemRelease forwards releases to the stance. Dragonfly only reports
// releases of the main hand item.
func (h *handler) HandleItemRelease(ctx *player.Context, it item.Stack, _ time.Duration) {
	h.Machine.Release(h.Stance, ctx.Val(), pvp.MainHand, it)
}

func (h *handler) HandleHeldSlotChange(ctx *player.Context, _, _ int) {
	h.Machine.SlotChange(h.Stance, ctx.Val())
}

func (h *handler) HandlePunchAir(*player.Context) {
	h.Machine.Swing(h.Stance, pvp.MainHand)
}

func (h *handler) HandleAttackEntity(*player.Context, world.Entity, *float64, *float64, *bool) {
	h.Machine.Swing(h.Stance, pvp.MainHand)
}

func (h *handler) HandleStartBreak(*player.Context, cube.Pos) {
	h.Machine.Swing(h.Stance, pvp.MainHand)
}

func (h *handler) HandleItemDrop(ctx *player.Context, it item.Stack) {
	if !h.Machine.AllowDrop(h.Stance, it) {
		ctx.Cancel()
	}
}

func (h *handler) HandleDeath(p *player.Player, _ world.DamageSource, _ *bool) {
	h.Machine.Unblock(h.Stance, p)
}

func (h *handler) HandleQuit(p *player.Player) {
	h.Machine.Unblock(h.Stance, p)
}

func (h *handler) HandleSwapHands(e *SwapHandsEvent) {
	if !h.Machine.AllowSwap(h.Stance, e.Holder) {
		e.Cancel()
	}
}

// swapCommand swaps the hands of the player running it.
type swapCommand struct{}

func (swapCommand) Run(src cmd.Source, o *cmd.Output, _ *world.Tx) {
	p, sess := pvp.Command(src)
	if p == nil {
		o.Error("This command can only be run by a player.")
		return
	}
	if !SwapHands(sess, p) {
		o.Error("You cannot swap hands while blocking.")
	}
}
