package exhaustion

import (
	"testing"

	"github.com/df-mc/dragonfly/server/entity"
)

func TestSourceKind(t *testing.T) {
	if got := SourceKind(entity.AttackDamageSource{}).Exhaustion(); got != 0.1 {
		t.Errorf("attack = %v, want 0.1", got)
	}
	if got := SourceKind(entity.FallDamageSource{}).Exhaustion(); got != 0 {
		t.Errorf("fall = %v, want 0", got)
	}
	if got := SourceKind(nil).Exhaustion(); got != 0 {
		t.Errorf("nil = %v, want 0", got)
	}
}
