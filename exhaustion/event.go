package exhaustion

import "github.com/oriumgames/pvp"

// ExhaustEvent is emitted before exhaustion is added to a player. Listeners
// may change Amount or cancel the event.
type ExhaustEvent struct {
	pvp.Cancellable
	Amount float32
}
