//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/google/wire"
	"github.com/yola1107/kratos/v2"
	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/biz"
	"github.com/bgschiller/network-blackjack/internal/conf"
	"github.com/bgschiller/network-blackjack/internal/data"
	"github.com/bgschiller/network-blackjack/internal/server"
	"github.com/bgschiller/network-blackjack/internal/service"
)

// wireApp init kratos application.
func wireApp(*conf.Bootstrap, *conf.Server, *conf.Data, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(server.ProviderSet, data.ProviderSet, biz.ProviderSet, service.ProviderSet, newApp))
}
