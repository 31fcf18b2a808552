package fishing

import (
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/pvp"
)

// RodName is the identifier of the fishing rod item.
const RodName = "minecraft:fishing_rod"

// IsRod reports whether s is a fishing rod.
func IsRod(s item.Stack) bool {
	return pvp.ItemName(s) == RodName
}

func init() {
	if _, ok := world.ItemByName(RodName, 0); !ok {
		world.RegisterItem(Rod{})
	}
}

// Rod is the fishing rod item. Dragonfly does not ship one, so it is
// registered when this package is loaded. Casting and retrieving are
// done by the feature handler, so Use does nothing on its own.
type Rod struct{}

// Use ...
func (Rod) Use(*world.Tx, item.User, *item.UseContext) bool {
	return false
}

// MaxCount ...
func (Rod) MaxCount() int {
	return 1
}

// DurabilityInfo ...
func (Rod) DurabilityInfo() item.DurabilityInfo {
	return item.DurabilityInfo{
		MaxDurability: 384,
		BrokenItem:    func() item.Stack { return item.Stack{} },
	}
}

// EncodeItem ...
func (Rod) EncodeItem() (name string, meta int16) {
	return RodName, 0
}
