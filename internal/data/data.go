// Package data is the persistence layer: player balances in a single keyed
// file, loaded at startup and flushed at payout and shutdown.
package data

import (
	"github.com/google/wire"
	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/conf"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewAccountRepo)

// Data holds the shared store handles.
type Data struct {
	accounts *accountStore
}

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	accounts, err := openAccountStore(c.AccountFile)
	if err != nil {
		return nil, nil, err
	}
	d := &Data{accounts: accounts}

	cleanup := func() {
		log.Info("closing the data resources")
		if err := accounts.Flush(); err != nil {
			log.Errorf("account flush on close: %v", err)
		}
	}
	return d, cleanup, nil
}
