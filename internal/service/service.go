// Package service bridges the transport and the game logic: every connection
// event is posted onto the usecase's task loop, so the transport's goroutines
// never touch game state directly.
package service

import (
	"github.com/google/wire"
	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/biz"
	"github.com/bgschiller/network-blackjack/internal/biz/player"
	"github.com/bgschiller/network-blackjack/internal/protocol"
)

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(NewService)

type Service struct {
	uc *biz.Usecase
}

func NewService(uc *biz.Usecase, logger log.Logger) *Service {
	return &Service{uc: uc}
}

func (s *Service) OnConnect(sess player.Session) {
	s.uc.Post(func() { s.uc.OnSessionOpen(sess) })
}

func (s *Service) OnMessage(sess player.Session, f protocol.Frame) {
	s.uc.Post(func() { s.uc.Dispatch(sess, f) })
}

func (s *Service) OnDisconnect(sess player.Session) {
	log.Debugf("disconnect. key:%s", sess.ID())
	s.uc.Post(func() { s.uc.OnSessionClose(sess) })
}
