// Package conf holds the bootstrap configuration for the blackjack server.
package conf

import (
	"fmt"
	"reflect"

	"github.com/yola1107/kratos/v2/config"
	"github.com/yola1107/kratos/v2/config/file"
	"github.com/yola1107/kratos/v2/library/xgo"
	"github.com/yola1107/kratos/v2/log"
)

const Name = "blackjack"
const Version = "v0.1.0"

type Bootstrap struct {
	Server *Server `json:"server"`
	Room   *Room   `json:"room"`
	Data   *Data   `json:"data"`
}

type Server struct {
	TCP *TCP `json:"tcp"`
}

type TCP struct {
	Addr     string `json:"addr"`     // listen address, e.g. :36799
	MaxConns int32  `json:"maxConns"` // 0 = unlimited
}

type Room struct {
	Game     *Game     `json:"game"`
	LogCache *LogCache `json:"logCache"`
}

// Game carries the table rules. Timeouts are in seconds.
type Game struct {
	MaxPlayers  int32 `json:"maxPlayers"`  // seats at the table
	MinBet      int64 `json:"minBet"`      // ante floor
	DefaultCash int64 `json:"defaultCash"` // balance granted to an unseen player id
	MaxStrikes  int32 `json:"maxStrikes"`  // protocol violations before disconnect
	ActionSecs  int64 `json:"actionSecs"`  // per-action deadline (ante/insurance/turn)
	JoinSecs    int64 `json:"joinSecs"`    // lobby window before the first round starts
	ChatLimit   int32 `json:"chatLimit"`   // max chat payload length
}

type LogCache struct {
	Open bool `json:"open"` // per-table round journal
}

type Data struct {
	AccountFile string `json:"accountFile"` // persisted id -> balance mapping
}

// Default returns a fully-populated Bootstrap; file values overlay it.
func Default() *Bootstrap {
	return &Bootstrap{
		Server: &Server{
			TCP: &TCP{Addr: ":36799", MaxConns: 0},
		},
		Room: &Room{
			Game: &Game{
				MaxPlayers:  6,
				MinBet:      4,
				DefaultCash: 1000,
				MaxStrikes:  3,
				ActionSecs:  30,
				JoinSecs:    30,
				ChatLimit:   450,
			},
			LogCache: &LogCache{Open: true},
		},
		Data: &Data{AccountFile: "./accounts.json"},
	}
}

func (bc *Bootstrap) Validate() error {
	g := bc.Room.Game
	if g.MaxPlayers <= 0 || g.MaxPlayers > 16 {
		return fmt.Errorf("room.game.maxPlayers out of range: %d", g.MaxPlayers)
	}
	if g.MinBet <= 0 {
		return fmt.Errorf("room.game.minBet must be positive: %d", g.MinBet)
	}
	if g.DefaultCash < g.MinBet {
		return fmt.Errorf("room.game.defaultCash %d below minBet %d", g.DefaultCash, g.MinBet)
	}
	if g.MaxStrikes <= 0 || g.ActionSecs <= 0 || g.JoinSecs <= 0 {
		return fmt.Errorf("room.game timeouts/strikes must be positive")
	}
	if bc.Server.TCP.Addr == "" {
		return fmt.Errorf("server.tcp.addr is required")
	}
	return nil
}

// LoadConfig loads the yaml bootstrap file over the defaults.
func LoadConfig(flagconf string) (config.Config, *Bootstrap) {
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)

	if err := c.Load(); err != nil {
		panic(err)
	}

	bc := Default()
	if err := c.Scan(bc); err != nil {
		panic(fmt.Errorf("bootstrap config invalid: %w", err))
	}
	if err := bc.Validate(); err != nil {
		panic(fmt.Errorf("bootstrap config invalid: %w", err))
	}
	return c, bc
}

// WatchConfig hot-reloads the table rules on file change.
func WatchConfig(c config.Config, bc *Bootstrap) error {
	for key, ptr := range map[string]any{
		"room.game":     bc.Room.Game,
		"room.logCache": bc.Room.LogCache,
	} {
		if err := c.Watch(key, observer(key, ptr)); err != nil {
			return fmt.Errorf("watch %q failed: %w", key, err)
		}
	}
	return nil
}

func observer(key string, target any) func(string, config.Value) {
	return func(_ string, val config.Value) {
		typ := reflect.TypeOf(target)
		if typ.Kind() != reflect.Pointer {
			log.Errorf("[config] %q target must be a pointer", key)
			return
		}

		newVal := reflect.New(typ.Elem()).Interface()
		if err := val.Scan(newVal); err != nil {
			log.Errorf("[config] scan failed: key=%q, err=%v", key, err)
			return
		}

		_, diff, err := xgo.DiffLog(target, newVal)
		if err != nil {
			log.Errorf("[config] diff failed: key=%q, err=%v", key, err)
			return
		}
		if len(diff) > 0 {
			log.Warnf("[config] [%q] updated:\n%s", key, diff)
			if err := xgo.DeepCopy(target, newVal); err != nil {
				log.Errorf("[config] update failed: key=%q, err=%v", key, err)
			}
		}
	}
}
