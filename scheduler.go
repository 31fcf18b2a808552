package pvp

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df-mc/dragonfly/server/world"
)

// Runnable is the interface implemented by loops.
// Run is called once per session per due tick, inside the session's world
// transaction, after the loop's fields have been injected.
type Runnable interface {
	Run(tx *world.Tx)
}

// Stage represents a scheduling stage for loop execution.
// Loops are executed in stage order: Before → Default → After.
type Stage int

const (
	// Before stage runs first. Use for input handling and state that
	// other loops depend on.
	Before Stage = iota

	// Default stage runs second. Use for game logic.
	Default

	// After stage runs last. Use for cleanup and synchronization.
	After

	stageCount
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case Before:
		return "Before"
	case Default:
		return "Default"
	case After:
		return "After"
	default:
		return "Unknown"
	}
}

// Scheduler runs loops at the server tick rate.
type Scheduler struct {
	manager *Manager

	loops   [stageCount][]*loopState
	loopsMu sync.RWMutex

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	tickRate   time.Duration
	tickNumber atomic.Uint64

	// exec runs a transaction on a world. Defaults to World.Exec.
	exec func(w *world.World, f world.ExecFunc) <-chan struct{}
}

// loopState tracks the timing of a single loop system.
type loopState struct {
	meta     *SystemMeta
	interval time.Duration
	nextRun  time.Time
}

// ShouldRun checks if the loop should run at the given time.
func (l *loopState) ShouldRun(now time.Time) bool {
	return l.interval == 0 || !now.Before(l.nextRun)
}

// MarkRun schedules the next run without accumulating drift.
func (l *loopState) MarkRun(now time.Time) {
	if l.interval <= 0 {
		return
	}
	l.nextRun = l.nextRun.Add(l.interval)
	if l.nextRun.Before(now) {
		// Catch up if we're behind
		l.nextRun = now.Add(l.interval)
	}
}

func newScheduler(manager *Manager) *Scheduler {
	return &Scheduler{
		manager:  manager,
		tickRate: time.Second / TicksPerSecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		exec: func(w *world.World, f world.ExecFunc) <-chan struct{} {
			return w.Exec(f)
		},
	}
}

// Start begins the scheduler's tick loop.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return
	}
	go s.tickLoop()
}

// Stop stops the tick loop and waits for the current tick to finish.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return
	}
	close(s.stopCh)
	<-s.doneCh
}

func (s *Scheduler) tickLoop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

// tick executes one scheduler tick.
func (s *Scheduler) tick(now time.Time) {
	s.tickNumber.Add(1)

	due := s.dueLoops(now)
	if len(due) == 0 {
		return
	}

	var wg sync.WaitGroup
	for w, sessions := range s.manager.groupedSessions() {
		if w == nil || len(sessions) == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-s.execute(w, func(tx *world.Tx) { s.runLoops(tx, sessions, due) }):
			case <-s.stopCh:
				// The world may already be closed, in which case the
				// transaction never runs.
			}
		}()
	}
	wg.Wait()

	for _, l := range due {
		l.MarkRun(now)
	}
}

// dueLoops returns the loops due at now in stage order.
func (s *Scheduler) dueLoops(now time.Time) []*loopState {
	s.loopsMu.RLock()
	defer s.loopsMu.RUnlock()

	var due []*loopState
	for stage := Before; stage < stageCount; stage++ {
		for _, l := range s.loops[stage] {
			if l.ShouldRun(now) {
				due = append(due, l)
			}
		}
	}
	return due
}

// execute queues f on w without blocking the caller while the world's queue
// is full or no longer read.
func (s *Scheduler) execute(w *world.World, f world.ExecFunc) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		<-s.exec(w, f)
		close(done)
	}()
	return done
}

// runLoops runs every due loop for every session present in tx.
func (s *Scheduler) runLoops(tx *world.Tx, sessions []*Session, due []*loopState) {
	if !s.running.Load() {
		return
	}
	for _, l := range due {
		system := l.meta.Pool.Get().(Runnable)
		for _, sess := range sessions {
			if sess.closed.Load() || !sess.canRun(l.meta) {
				continue
			}
			if _, ok := sess.Player(tx); !ok {
				continue
			}
			if injectSystem(system, sess, l.meta, s.manager) {
				s.run(tx, system, l.meta)
			}
			zeroSystem(system, l.meta)
		}
		l.meta.Pool.Put(system)
	}
}

// run executes a loop, recovering from panics so that one faulty feature
// cannot stop the tick.
func (s *Scheduler) run(tx *world.Tx, system Runnable, meta *SystemMeta) {
	defer func() {
		if r := recover(); r != nil {
			s.manager.log.Error("pvp: panic in loop",
				"loop", meta.Name,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	system.Run(tx)
}

// addLoop registers a loop with the scheduler.
func (s *Scheduler) addLoop(meta *SystemMeta, interval time.Duration) {
	s.loopsMu.Lock()
	defer s.loopsMu.Unlock()

	s.loops[meta.Stage] = append(s.loops[meta.Stage], &loopState{
		meta:     meta,
		interval: interval,
		nextRun:  time.Now(),
	})
}
