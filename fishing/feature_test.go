package fishing

import (
	"testing"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oriumgames/pvp"
)

func newTestHandler() (*handler, *countingLauncher, *soundLog) {
	l := &countingLauncher{}
	return &handler{
		Line:     &Line{},
		Rules:    &pvp.Ruleset{Version: pvp.Modern},
		Damager:  &fakeDamager{},
		Launcher: l,
		Options:  &Options{Random: zeroGaussian{}},
	}, l, &soundLog{}
}

func TestHandlerUseRequiresRod(t *testing.T) {
	tests := []struct {
		name string
		main item.Stack
		cast bool
	}{
		{"rod", item.NewStack(Rod{}, 1), true},
		{"apple", item.NewStack(item.Apple{}, 1), false},
		{"empty hand", item.Stack{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, launcher, sounds := newTestHandler()
			c := newCaster(world.GameModeSurvival)
			c.main = tt.main

			if got := h.use(c, sounds); got != tt.cast {
				t.Fatalf("use = %v, want %v", got, tt.cast)
			}
			if h.Line.Cast() != tt.cast || (len(launcher.launched) == 1) != tt.cast {
				t.Fatalf("cast = %v, launched = %d", h.Line.Cast(), len(launcher.launched))
			}
		})
	}
}

func TestHandlerUseRetrievesAndPlaysSounds(t *testing.T) {
	h, launcher, sounds := newTestHandler()
	c := newCaster(world.GameModeSurvival)

	h.use(c, sounds)
	launcher.launched[0].SetOutcome(InGround)
	if !h.use(c, sounds) || h.Line.Cast() {
		t.Fatal("second use did not retrieve")
	}
	if d := h.Damager.(*fakeDamager).calls; len(d) != 1 || d[0] != (damageCall{pvp.MainHand, 2}) {
		t.Fatalf("damage calls = %v", d)
	}
	if len(sounds.played) != 2 || sounds.played[0] != c.pos {
		t.Fatalf("sounds = %v, want two at %v", sounds.played, c.pos)
	}
}

func TestRodRegistered(t *testing.T) {
	it, ok := world.ItemByName(RodName, 0)
	if !ok {
		t.Fatal("rod not registered")
	}
	if !IsRod(item.NewStack(it, 1)) {
		t.Fatalf("item %T is not a rod", it)
	}
}
