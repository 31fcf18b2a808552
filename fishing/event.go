package fishing

import "github.com/oriumgames/pvp"

// ShootEvent is emitted before a bobber is cast. Listeners may change the
// spread of the cast or cancel it.
type ShootEvent struct {
	pvp.Cancellable
	// Spread scales the random deviation of the launch velocity. It is 1
	// unless a listener changes it.
	Spread float64
}

// RetrieveEvent is emitted before a bobber is retrieved. Cancelling it
// leaves the bobber in the world and costs no durability.
type RetrieveEvent struct {
	pvp.Cancellable
	Bobber Bobber
}
