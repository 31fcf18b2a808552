package pvp

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
)

// SessionOf returns the session driving p, or nil if p is not handled by a
// SessionHandler.
func SessionOf(p *player.Player) *Session {
	if p == nil {
		return nil
	}
	h, ok := p.Handler().(*SessionHandler)
	if !ok {
		return nil
	}
	return h.session
}

// Command extracts the player and session from a command source.
// Returns (nil, nil) if the source is not a player.
//
//	func (c Stance) Run(src cmd.Source, out *cmd.Output, tx *world.Tx) {
//	    p, sess := pvp.Command(src)
//	    if sess == nil {
//	        out.Error("player-only command")
//	        return
//	    }
//	    ...
//	}
//
// Commands run synchronously with the player, so components may be accessed
// directly.
func Command(src cmd.Source) (*player.Player, *Session) {
	p, ok := src.(*player.Player)
	if !ok {
		return nil, nil
	}
	return p, SessionOf(p)
}
