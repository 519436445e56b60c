package table

import (
	"fmt"

	"github.com/yola1107/kratos/v2/library/log/file"

	"github.com/bgschiller/network-blackjack/internal/biz/player"
	"github.com/bgschiller/network-blackjack/internal/conf"
)

const logDirPath = "./logs/log_cache/%s/table.log"

// Log is the per-table round journal, written to its own rotating file so a
// disputed hand can be replayed without digging through the server log.
type Log struct {
	c      *conf.LogCache
	logger *file.Log
}

func NewTableLog(c *conf.LogCache) *Log {
	return &Log{
		c:      c,
		logger: file.NewFileLog(fmt.Sprintf(logDirPath, conf.Name)),
	}
}

func (l *Log) Close() error {
	return l.logger.Sync()
}

func (l *Log) write(msg string, args ...interface{}) {
	if !l.c.Open {
		return
	}
	l.logger.WriteLog(msg, args...)
}

func (l *Log) userEnter(p *player.Player, sitCnt int32) {
	l.write("[enter] p:%v sit:%d", p.Desc(), sitCnt)
}

func (l *Log) userExit(p *player.Player, sitCnt int32) {
	l.write("[exit] p:%v sit:%d", p.Desc(), sitCnt)
}

func (l *Log) stage(desc string) {
	l.write("[stage] %s", desc)
}

func (l *Log) begin(sitCnt int32) {
	l.write("[round begin] sit:%d", sitCnt)
}

// deal logs one dealt hand; a nil player is the dealer.
func (l *Log) deal(p *player.Player, cards []string) {
	if p == nil {
		l.write("[deal] dealer hand:%s", handDesc(cards))
		return
	}
	l.write("[deal] p:%v hand:%s", p.Desc(), handDesc(cards))
}

// action logs one resolved move; a nil player is the dealer.
func (l *Log) action(p *player.Player, action, card string) {
	if p == nil {
		l.write("[action] dealer %s card:%s", action, card)
		return
	}
	l.write("[action] p:%v %s card:%s hand:%s", p.Desc(), action, card, handDesc(p.Hand()))
}

func (l *Log) settle(p *player.Player, staked, credit int64) {
	l.write("[settle] p:%v staked:%d credit:%d", p.Desc(), staked, credit)
}
