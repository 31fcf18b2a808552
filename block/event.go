package block

import (
	"github.com/df-mc/dragonfly/server/item"
	"github.com/oriumgames/pvp"
)

// StartBlockEvent is emitted before a player enters the blocking stance.
// Cancelling it keeps the player idle.
type StartBlockEvent struct {
	pvp.Cancellable
	// Item is the sword the player is blocking with.
	Item item.Stack
}

// SwapHandsEvent is emitted when a player tries to swap its main hand and
// off-hand items. Dragonfly has no hook for swapping hands, so it is raised
// through SwapHands by the integration that detects the swap.
type SwapHandsEvent struct {
	pvp.Cancellable
	Holder pvp.Holder
}
