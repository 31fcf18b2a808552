package exhaustion

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// playerBody adapts a Dragonfly player to Body within a transaction.
type playerBody struct {
	*player.Player
	tx *world.Tx
}

// PlayerBody returns the Body of p. tx must be the transaction p belongs to.
func PlayerBody(tx *world.Tx, p *player.Player) Body {
	return playerBody{Player: p, tx: tx}
}

func (b playerBody) Invulnerable() bool {
	return !b.GameMode().AllowsTakingDamage()
}

func (b playerBody) InWater() bool {
	_, ok := b.tx.Block(cube.PosFromVec3(b.Position())).(block.Water)
	return ok
}

// sourceKind derives the base exhaustion of a Dragonfly damage source.
type sourceKind struct {
	src world.DamageSource
}

// SourceKind returns the DamageKind of src. Damage reduced by armour, such
// as attacks, projectiles, explosions and fire, costs 0.1. Starvation,
// falling, drowning and other bodily damage costs nothing.
func SourceKind(src world.DamageSource) DamageKind {
	return sourceKind{src: src}
}

func (k sourceKind) Exhaustion() float32 {
	if k.src != nil && k.src.ReducedByArmour() {
		return 0.1
	}
	return 0
}
