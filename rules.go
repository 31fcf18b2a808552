package pvp

import (
	"fmt"
	"strings"

	"github.com/df-mc/dragonfly/server/item"
)

// CombatVersion selects which generation of combat rules a feature follows.
type CombatVersion uint8

const (
	// Legacy follows the rules of the pre-1.9 Java combat.
	Legacy CombatVersion = iota
	// Modern follows the rules introduced with 1.9.
	Modern
)

// String returns the lower-case name of the version.
func (v CombatVersion) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case Modern:
		return "modern"
	default:
		return fmt.Sprintf("CombatVersion(%d)", uint8(v))
	}
}

// ParseCombatVersion parses the name of a combat version, case-insensitively.
func ParseCombatVersion(s string) (CombatVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy":
		return Legacy, nil
	case "modern":
		return Modern, nil
	}
	return 0, fmt.Errorf("unknown combat version %q", s)
}

// Ruleset is the resource shared by every feature that has version-gated
// behaviour.
type Ruleset struct {
	Version CombatVersion
}

// Legacy reports whether the legacy rules are in effect.
func (r Ruleset) Legacy() bool {
	return r.Version == Legacy
}

// Modern reports whether the modern rules are in effect.
func (r Ruleset) Modern() bool {
	return r.Version == Modern
}

// Difficulty is the world difficulty as seen by the hunger rules.
type Difficulty uint8

const (
	Peaceful Difficulty = iota
	Easy
	Normal
	Hard
)

// String returns the lower-case name of the difficulty.
func (d Difficulty) String() string {
	switch d {
	case Peaceful:
		return "peaceful"
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", uint8(d))
	}
}

// ParseDifficulty parses the name of a difficulty, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "peaceful":
		return Peaceful, nil
	case "easy":
		return Easy, nil
	case "normal":
		return Normal, nil
	case "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// DifficultyProvider reports the difficulty that applies to players.
type DifficultyProvider interface {
	Difficulty() Difficulty
}

// FixedDifficulty is a DifficultyProvider that always reports the same value.
type FixedDifficulty Difficulty

// Difficulty ...
func (d FixedDifficulty) Difficulty() Difficulty {
	return Difficulty(d)
}

// Hand identifies one of the two hand slots.
type Hand uint8

const (
	MainHand Hand = iota
	OffHand
)

// String ...
func (h Hand) String() string {
	if h == OffHand {
		return "off_hand"
	}
	return "main_hand"
}

// Holder is anything holding items in both hands. *player.Player
// implements it.
type Holder interface {
	HeldItems() (mainHand, offHand item.Stack)
	SetHeldItems(mainHand, offHand item.Stack)
}

// ItemDamager applies durability damage to the item held in a hand.
type ItemDamager interface {
	DamageItem(h Holder, hand Hand, amount int)
}

// HeldItemDamager is the ItemDamager for Dragonfly players. The damaged
// stack is written back with SetHeldItems, which also updates viewers.
type HeldItemDamager struct{}

// DamageItem damages the stack held in hand by amount. A stack that runs out
// of durability is replaced by air.
func (HeldItemDamager) DamageItem(h Holder, hand Hand, amount int) {
	if amount <= 0 {
		return
	}
	mainHand, offHand := h.HeldItems()
	if hand == OffHand {
		if offHand.Empty() {
			return
		}
		offHand = offHand.Damage(amount)
	} else {
		if mainHand.Empty() {
			return
		}
		mainHand = mainHand.Damage(amount)
	}
	h.SetHeldItems(mainHand, offHand)
}

// ItemName returns the namespaced identifier of the item in s, or an empty
// string for air.
func ItemName(s item.Stack) string {
	if s.Empty() {
		return ""
	}
	name, _ := s.Item().EncodeItem()
	return name
}
