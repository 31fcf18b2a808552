package pvp

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Manager is the central coordinator.
// It manages sessions, features, resources and the scheduler.
// Multiple Manager instances can coexist in the same process for running
// multiple isolated servers.
type Manager struct {
	features []*Feature

	// handlers holds all registered handler metadata
	handlers []*handlerMeta

	// resources holds values injected into `pvp:"res"` fields, keyed by
	// the field type they satisfy
	resources   map[reflect.Type]reflect.Value
	resourcesMu sync.RWMutex

	sessions   map[*world.EntityHandle]*Session
	sessionsMu sync.RWMutex

	sessionsByUUID   map[uuid.UUID]*Session
	sessionsByUUIDMu sync.RWMutex

	sessionsByName   map[string]*Session
	sessionsByNameMu sync.RWMutex

	// sessionsByWorld groups sessions by world for scheduling
	sessionsByWorld   map[*world.World]map[*Session]struct{}
	sessionsByWorldMu sync.RWMutex

	scheduler *Scheduler

	log *slog.Logger
}

func newManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		resources:       make(map[reflect.Type]reflect.Value),
		sessions:        make(map[*world.EntityHandle]*Session),
		sessionsByUUID:  make(map[uuid.UUID]*Session),
		sessionsByName:  make(map[string]*Session),
		sessionsByWorld: make(map[*world.World]map[*Session]struct{}),
		log:             log,
	}
	m.scheduler = newScheduler(m)
	return m
}

// addResource registers v under type t.
func (m *Manager) addResource(t reflect.Type, v reflect.Value) {
	m.resourcesMu.Lock()
	m.resources[t] = v
	m.resourcesMu.Unlock()
}

// resource returns the value registered for t.
func (m *Manager) resource(t reflect.Type) (reflect.Value, bool) {
	m.resourcesMu.RLock()
	defer m.resourcesMu.RUnlock()
	v, ok := m.resources[t]
	return v, ok
}

// Resource retrieves a resource registered on the manager.
// The second return value is false if no resource of type T exists.
func Resource[T any](m *Manager) (T, bool) {
	var zero T
	if m == nil {
		return zero, false
	}
	v, ok := m.resource(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	return v.Interface().(T), true
}

// Logger returns the logger the manager reports through.
func (m *Manager) Logger() *slog.Logger {
	return m.log
}

func (m *Manager) addSession(s *Session) {
	if s.handle != nil {
		m.sessionsMu.Lock()
		m.sessions[s.handle] = s
		m.sessionsMu.Unlock()
	}

	m.sessionsByUUIDMu.Lock()
	m.sessionsByUUID[s.uuid] = s
	m.sessionsByUUIDMu.Unlock()

	m.sessionsByNameMu.Lock()
	m.sessionsByName[s.name] = s
	m.sessionsByNameMu.Unlock()

	m.MoveSession(s, nil, s.World())
}

// MoveSession updates the session's world in the index.
func (m *Manager) MoveSession(s *Session, from, to *world.World) {
	m.sessionsByWorldMu.Lock()
	defer m.sessionsByWorldMu.Unlock()

	if set := m.sessionsByWorld[from]; from != nil && set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(m.sessionsByWorld, from)
		}
	}
	if to != nil {
		if m.sessionsByWorld[to] == nil {
			m.sessionsByWorld[to] = make(map[*Session]struct{})
		}
		m.sessionsByWorld[to][s] = struct{}{}
	}
}

func (m *Manager) removeSession(s *Session) {
	if s.handle != nil {
		m.sessionsMu.Lock()
		delete(m.sessions, s.handle)
		m.sessionsMu.Unlock()
	}

	m.sessionsByUUIDMu.Lock()
	delete(m.sessionsByUUID, s.uuid)
	m.sessionsByUUIDMu.Unlock()

	m.sessionsByNameMu.Lock()
	delete(m.sessionsByName, s.name)
	m.sessionsByNameMu.Unlock()

	m.MoveSession(s, s.World(), nil)
}

// GetSession retrieves the session for a player.
func (m *Manager) GetSession(p *player.Player) *Session {
	return m.GetSessionByHandle(p.H())
}

// GetSessionByHandle retrieves a session by entity handle.
func (m *Manager) GetSessionByHandle(h *world.EntityHandle) *Session {
	m.sessionsMu.RLock()
	defer m.sessionsMu.RUnlock()
	return m.sessions[h]
}

// GetSessionByUUID retrieves a session by UUID.
func (m *Manager) GetSessionByUUID(id uuid.UUID) *Session {
	m.sessionsByUUIDMu.RLock()
	defer m.sessionsByUUIDMu.RUnlock()
	return m.sessionsByUUID[id]
}

// GetSessionByName retrieves a session by player name.
func (m *Manager) GetSessionByName(name string) *Session {
	m.sessionsByNameMu.RLock()
	defer m.sessionsByNameMu.RUnlock()
	return m.sessionsByName[name]
}

// AllSessions returns a slice of all active sessions.
func (m *Manager) AllSessions() []*Session {
	m.sessionsByUUIDMu.RLock()
	defer m.sessionsByUUIDMu.RUnlock()

	sessions := make([]*Session, 0, len(m.sessionsByUUID))
	for _, s := range m.sessionsByUUID {
		if !s.closed.Load() {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.sessionsByUUIDMu.RLock()
	defer m.sessionsByUUIDMu.RUnlock()
	return len(m.sessionsByUUID)
}

// groupedSessions returns a snapshot of sessions grouped by world.
func (m *Manager) groupedSessions() map[*world.World][]*Session {
	m.sessionsByWorldMu.RLock()
	defer m.sessionsByWorldMu.RUnlock()

	result := make(map[*world.World][]*Session, len(m.sessionsByWorld))
	for w, set := range m.sessionsByWorld {
		list := make([]*Session, 0, len(set))
		for s := range set {
			list = append(list, s)
		}
		result[w] = list
	}
	return result
}

// build analyzes every feature, checks its dependencies and registers its
// handlers and loops.
func (m *Manager) build() error {
	for _, f := range m.features {
		for _, dep := range f.requires {
			if _, ok := m.resource(dep); !ok {
				return fmt.Errorf("feature %s: missing dependency %v", f.name, dep)
			}
		}

		for _, h := range f.handlers {
			if err := m.registerHandler(h, f); err != nil {
				return fmt.Errorf("feature %s: %w", f.name, err)
			}
		}

		for _, reg := range f.loops {
			meta, err := analyzeSystem(reflect.TypeOf(reg.system))
			if err != nil {
				return fmt.Errorf("feature %s: loop %T: %w", f.name, reg.system, err)
			}
			if err := m.checkResources(meta); err != nil {
				return fmt.Errorf("feature %s: loop %s: %w", f.name, meta.Name, err)
			}
			meta.Stage = reg.stage
			meta.Feature = f
			m.scheduler.addLoop(meta, reg.interval)
		}

		for _, c := range f.commands {
			cmd.Register(c)
		}
	}
	return nil
}

// checkResources verifies that every resource field of a system can be
// satisfied.
func (m *Manager) checkResources(meta *SystemMeta) error {
	for _, field := range meta.Fields {
		if field.Kind != KindResource {
			continue
		}
		if _, ok := m.resource(field.Type); !ok {
			return fmt.Errorf("field %s: no resource of type %v", field.Name, field.Type)
		}
	}
	return nil
}

// Start starts the scheduler.
func (m *Manager) Start() {
	m.scheduler.Start()
}

// Shutdown stops the scheduler and closes every session.
func (m *Manager) Shutdown() {
	m.scheduler.Stop()

	for _, s := range m.AllSessions() {
		s.close()
	}
}

// TickNumber returns the current scheduler tick number.
func (m *Manager) TickNumber() uint64 {
	return m.scheduler.tickNumber.Load()
}

// NewSession creates a new session for a player and runs the join
// initializer of every feature on it. The returned session should be passed
// to player.Handle() wrapped with NewHandler().
func (m *Manager) NewSession(p *player.Player) (*Session, error) {
	s := &Session{
		handle:  p.H(),
		uuid:    p.UUID(),
		name:    p.Name(),
		xuid:    p.XUID(),
		manager: m,
	}
	s.updateWorldCache(p.Tx().World())

	if err := m.initSession(s); err != nil {
		return nil, err
	}
	m.addSession(s)

	m.log.Debug("pvp: session created", "player", s.name, "features", len(m.features))
	return s, nil
}

// NewDetachedSession creates a session that is not bound to an entity. Join
// initializers run and custom events reach handlers as for players, but
// loops never run for it since it is in no world. Close it when done.
func (m *Manager) NewDetachedSession(name string) (*Session, error) {
	s := &Session{
		uuid:    uuid.New(),
		name:    name,
		manager: m,
	}
	if err := m.initSession(s); err != nil {
		return nil, err
	}
	m.addSession(s)
	return s, nil
}

// initSession runs the join initializers of all features.
func (m *Manager) initSession(s *Session) error {
	for _, f := range m.features {
		for _, fn := range f.joins {
			if err := fn(s); err != nil {
				return fmt.Errorf("feature %s: init %s: %w", f.name, s.name, err)
			}
		}
	}
	return nil
}
