// Package block implements sword blocking: using a sword puts a blocking
// item in the off-hand until the stance ends, after which the displaced
// off-hand item is restored exactly.
package block

import (
	"strings"
	"time"

	"github.com/df-mc/dragonfly/server/item"
	"github.com/oriumgames/pvp"
)

// DefaultDebounce is the minimum time between a swing and the start of a
// stance.
const DefaultDebounce = 50 * time.Millisecond

// Stance is the per-player blocking state. Its fields are only changed
// through Machine, which keeps blocking and the displaced item in sync.
type Stance struct {
	blocking  bool
	displaced item.Stack
	lastSwing time.Time
}

// Blocking reports whether the player is in the blocking stance.
func (s *Stance) Blocking() bool {
	return s.blocking
}

// Displaced returns the off-hand item the blocking item replaced.
func (s *Stance) Displaced() item.Stack {
	return s.displaced
}

// LastSwing returns the time of the last main hand swing.
func (s *Stance) LastSwing() time.Time {
	return s.lastSwing
}

// CanBlockWith reports whether stack is a sword.
func CanBlockWith(stack item.Stack) bool {
	return strings.Contains(pvp.ItemName(stack), "sword")
}

// Machine drives the Idle and Blocking states of a Stance.
type Machine struct {
	// BlockingItem is put in the off-hand while blocking.
	BlockingItem item.Stack
	// Debounce is the minimum time since the last swing before a stance can
	// start.
	Debounce time.Duration
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMachine returns a Machine blocking with a shield.
func NewMachine() Machine {
	return Machine{
		BlockingItem: item.NewStack(Shield{}, 1),
		Debounce:     DefaultDebounce,
		Now:          time.Now,
	}
}

func (m Machine) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// isBlockingItem reports whether stack is the blocking item.
func (m Machine) isBlockingItem(stack item.Stack) bool {
	return !stack.Empty() && stack.Comparable(m.BlockingItem)
}

// Use handles the player starting to use used in hand. It enters the stance
// if used is a sword held in the main hand, the player is not blocking yet
// and the last swing is at least Debounce ago. A StartBlockEvent is emitted
// through e first and may veto the stance. Use reports whether the stance
// was entered.
func (m Machine) Use(s *Stance, h pvp.Holder, hand pvp.Hand, used item.Stack, e pvp.Emitter) bool {
	if hand != pvp.MainHand || s.blocking || !CanBlockWith(used) {
		return false
	}
	if m.now().Sub(s.lastSwing) < m.Debounce {
		return false
	}
	if e != nil && !e.Emit(&StartBlockEvent{Item: used}) {
		return false
	}
	m.Block(s, h)
	return true
}

// Block enters the stance: the off-hand item is stored and replaced with the
// blocking item. It does nothing if the player is already blocking.
func (m Machine) Block(s *Stance, h pvp.Holder) {
	if s.blocking {
		return
	}
	mainHand, offHand := h.HeldItems()
	s.displaced = offHand
	s.blocking = true
	h.SetHeldItems(mainHand, m.BlockingItem)
}

// Unblock leaves the stance and restores the displaced off-hand item. It
// does nothing if the player is not blocking.
func (m Machine) Unblock(s *Stance, h pvp.Holder) {
	if !s.blocking {
		return
	}
	mainHand, _ := h.HeldItems()
	displaced := s.displaced
	s.blocking = false
	s.displaced = item.Stack{}
	h.SetHeldItems(mainHand, displaced)
}

// Release handles the player finishing the use of released in hand. The
// stance ends when the blocking item is released from the off-hand.
func (m Machine) Release(s *Stance, h pvp.Holder, hand pvp.Hand, released item.Stack) {
	if hand == pvp.OffHand && m.isBlockingItem(released) {
		m.Unblock(s, h)
	}
}

// SlotChange handles the player changing the held hotbar slot.
func (m Machine) SlotChange(s *Stance, h pvp.Holder) {
	if m.holdsBlockingItem(s, h) {
		m.Unblock(s, h)
	}
}

// AllowSwap reports whether the player may swap the items in its hands.
// Swapping is refused while the blocking item is held in the off-hand.
func (m Machine) AllowSwap(s *Stance, h pvp.Holder) bool {
	return !m.holdsBlockingItem(s, h)
}

// AllowDrop reports whether the player may drop dropped. The blocking item
// cannot be dropped mid-stance.
func (m Machine) AllowDrop(s *Stance, dropped item.Stack) bool {
	return !s.blocking || !m.isBlockingItem(dropped)
}

// Swing records a swing of hand. Only main hand swings are recorded.
func (m Machine) Swing(s *Stance, hand pvp.Hand) {
	if hand == pvp.MainHand {
		s.lastSwing = m.now()
	}
}

func (m Machine) holdsBlockingItem(s *Stance, h pvp.Holder) bool {
	if !s.blocking {
		return false
	}
	_, offHand := h.HeldItems()
	return m.isBlockingItem(offHand)
}
