// Package biz owns the game-side state: the connection registry, the single
// table and the account balances. Every mutation runs on one task loop, so
// nothing in here needs a lock.
package biz

import (
	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(NewUsecase)

// AccountRepo persists player balances across server lifetimes.
type AccountRepo interface {
	// Load returns the stored balance, or false for an unseen id.
	Load(id string) (int64, bool)
	Set(id string, cash int64)
	// Flush writes the store to disk.
	Flush() error
}
