// Package pvp provides combat and survival mechanics for Dragonfly servers,
// built as self-contained features on top of a per-player component runtime.
//
// The runtime provides:
//   - Sessions holding typed per-player state (components)
//   - Features grouping handlers, per-tick loops, resources and join initializers
//   - Declarative dependency injection via struct tags
//   - Synchronous custom events with cancellation (Emit)
//   - A 20 TPS scheduler running loops inside the world transaction
//
// # Quick Start
//
//	b := pvp.NewBuilder().
//	    Resource(&pvp.Ruleset{Version: pvp.Legacy}).
//	    Feature(exhaustion.NewFeature(exhaustion.Options{})).
//	    Feature(block.NewFeature(block.Options{}))
//	pvp.Provide[pvp.DifficultyProvider](b, pvp.FixedDifficulty(pvp.Normal))
//	mngr := b.Init()
//
//	for p := range srv.Accept() {
//	    sess, err := mngr.NewSession(p)
//	    if err != nil {
//	        p.Disconnect("failed to initialize session")
//	        continue
//	    }
//	    p.Handle(pvp.NewHandler(sess))
//	}
//
// # Systems
//
// Handlers and loops declare their dependencies via struct tags:
//
//	type hungerHandler struct {
//	    pvp.NopHandler
//	    Session *pvp.Session
//	    Hunger  *Hunger           `pvp:"mut"`
//	    Rules   *pvp.Ruleset      `pvp:"res"`
//	    _       pvp.Without[Frozen]
//	}
//
// # Tag Reference
//
//	(none)         Required read-only component
//	pvp:"mut"      Required mutable component
//	pvp:"opt"      Optional (nil if missing)
//	pvp:"opt,mut"  Optional mutable
//	pvp:"res"      Resource (feature dependency)
package pvp

// Version is the runtime version.
const Version = "1.0.0"

// TicksPerSecond is the simulation rate the scheduler and per-tick
// velocities are expressed in.
const TicksPerSecond = 20
