package pvp

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Session holds the per-player state of all features.
// It wraps the player's EntityHandle (which is persistent across transactions)
// and stores every component attached to the player.
//
// Sessions are created when players join and closed when they leave.
type Session struct {
	// handle is the persistent entity handle for the player
	handle *world.EntityHandle

	uuid uuid.UUID
	name string
	xuid string

	// mask tracks which components are present
	mask Bitmask

	// worldCache is the atomic pointer to the player's world
	worldCache unsafe.Pointer

	// components stores component pointers indexed by ComponentID
	components [MaxComponents]unsafe.Pointer

	// mu protects mask and components
	mu sync.RWMutex

	manager *Manager

	closed atomic.Bool
}

// Handle returns the underlying EntityHandle.
func (s *Session) Handle() *world.EntityHandle {
	return s.handle
}

// UUID returns the player's UUID.
func (s *Session) UUID() uuid.UUID {
	return s.uuid
}

// Name returns the player's name.
func (s *Session) Name() string {
	return s.name
}

// XUID returns the player's XUID.
func (s *Session) XUID() string {
	return s.xuid
}

// Player retrieves the *player.Player associated with this session within the given transaction.
// It returns (nil, false) if the player entity is not present in the transaction.
//
// Usage:
//
//	if p, ok := s.Player(tx); ok {
//	    p.Message("Hello!")
//	}
func (s *Session) Player(tx *world.Tx) (*player.Player, bool) {
	if s.handle == nil {
		return nil, false
	}
	e, ok := s.handle.Entity(tx)
	if !ok {
		return nil, false
	}
	p, ok := e.(*player.Player)
	return p, ok
}

// Exec runs a function within the session's world transaction.
// Returns false if the player is offline or the session is closed.
func (s *Session) Exec(fn func(tx *world.Tx, p *player.Player)) bool {
	if s.closed.Load() || s.handle == nil {
		return false
	}

	return s.handle.ExecWorld(func(tx *world.Tx, e world.Entity) {
		p, ok := e.(*player.Player)
		if !ok {
			return
		}
		fn(tx, p)
	})
}

// World returns the world the player was last seen in.
func (s *Session) World() *world.World {
	return (*world.World)(atomic.LoadPointer(&s.worldCache))
}

// Manager returns the manager that owns this session.
func (s *Session) Manager() *Manager {
	return s.manager
}

// Closed returns true if the session has been closed.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Mask returns a copy of the session's component bitmask.
func (s *Session) Mask() Bitmask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mask
}

func (s *Session) updateWorldCache(w *world.World) {
	atomic.StorePointer(&s.worldCache, unsafe.Pointer(w))
}

// String returns a string representation of the session for debugging.
func (s *Session) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comps []string
	for id := range ComponentID(MaxComponents) {
		if s.mask.Has(id) {
			comps = append(comps, registry.name(id))
		}
	}

	return fmt.Sprintf("Session{Name: %s, XUID: %s, UUID: %s, Components: [%s]}",
		s.name, s.xuid, s.uuid, strings.Join(comps, ", "))
}

// canRun checks if the session passes the bitmask filter for a system.
func (s *Session) canRun(meta *SystemMeta) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mask.ContainsAll(meta.RequireMask) && !s.mask.ContainsAny(meta.ExcludeMask)
}

// component returns the component pointer stored under id, or nil.
func (s *Session) component(id ComponentID) unsafe.Pointer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.components[id]
}

// Close closes the session. Player sessions are closed when the player
// quits, so this is only needed for detached sessions.
func (s *Session) Close() {
	s.close()
}

// close releases every component and unregisters the session.
// It is called when the player quits or the manager shuts down.
func (s *Session) close() {
	if s.closed.Swap(true) {
		return
	}

	// Clear everything first so that Detach hooks observe a session that no
	// longer owns the component being released.
	s.mu.Lock()
	var detach []Detachable
	for id := range ComponentID(MaxComponents) {
		ptr := s.components[id]
		if ptr == nil {
			continue
		}
		if t := registry.typeOf(id); t != nil {
			if d, ok := reflect.NewAt(t, ptr).Interface().(Detachable); ok {
				detach = append(detach, d)
			}
		}
		s.components[id] = nil
	}
	s.mask = Bitmask{}
	s.mu.Unlock()

	for _, d := range detach {
		d.Detach(s)
	}

	if s.manager != nil {
		s.manager.removeSession(s)
	}
}
