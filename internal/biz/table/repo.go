package table

import (
	"github.com/yola1107/kratos/v2/library/work"

	"github.com/bgschiller/network-blackjack/internal/biz/player"
	"github.com/bgschiller/network-blackjack/internal/conf"
)

// Repo is what the table needs from its owner (the registry/usecase).
type Repo interface {
	GetTimer() work.Scheduler
	GetRoomConfig() *conf.Room

	// Broadcast delivers one frame to every registered connection, seated
	// or not, tolerating per-connection send failures.
	Broadcast(frame []byte)

	// Drop disconnects a player entirely: registry, seat and socket.
	Drop(p *player.Player, reason string)

	// SaveAccount persists the player's current balance.
	SaveAccount(p *player.Player)
}
