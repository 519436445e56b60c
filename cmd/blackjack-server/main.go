package main

import (
	"flag"
	"os"

	"github.com/yola1107/kratos/v2"
	"github.com/yola1107/kratos/v2/library/log/zap"
	zconf "github.com/yola1107/kratos/v2/library/log/zap/conf"
	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/conf"
	"github.com/bgschiller/network-blackjack/internal/server"
)

var (
	Name     = conf.Name
	Version  = conf.Version
	flagconf string // -conf path
	id, _    = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs/config.yaml", "config path, e.g. -conf config.yaml")
}

func newApp(logger log.Logger, ts *server.TCPServer) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			ts,
		),
	)
}

func main() {
	flag.Parse()

	c, bc := conf.LoadConfig(flagconf)
	defer c.Close()

	logger := zap.NewLogger(zconf.DefaultConfig(zconf.WithAppName(Name)))
	log.SetLogger(logger)
	defer logger.Close()

	if err := conf.WatchConfig(c, bc); err != nil {
		panic(err)
	}

	app, cleanup, err := wireApp(bc, bc.Server, bc.Data, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}
