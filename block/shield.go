package block

import (
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
)

// ShieldName is the identifier of the shield item.
const ShieldName = "minecraft:shield"

func init() {
	if _, ok := world.ItemByName(ShieldName, 0); !ok {
		world.RegisterItem(Shield{})
	}
}

// Shield is the default blocking item. Dragonfly does not ship one, so it is
// registered when this package is loaded.
type Shield struct{}

// MaxCount ...
func (Shield) MaxCount() int {
	return 1
}

// OffHand ...
func (Shield) OffHand() bool {
	return true
}

// DurabilityInfo ...
func (Shield) DurabilityInfo() item.DurabilityInfo {
	return item.DurabilityInfo{
		MaxDurability: 336,
		BrokenItem:    func() item.Stack { return item.Stack{} },
	}
}

// EncodeItem ...
func (Shield) EncodeItem() (name string, meta int16) {
	return ShieldName, 0
}
