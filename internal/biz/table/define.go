package table

import (
	"fmt"
	"sync"
	"time"
)

/*
	StageID round phases
*/

type StageID int32

const (
	StLobby     StageID = iota // waiting for players
	StAnte                     // collecting antes
	StInsurance                // dealer shows an ace
	StTurn                     // seated players act in seat order
	StDealer                   // dealer auto-play (synchronous)
	StPayout                   // settle and teardown (synchronous)
)

var stageNames = map[StageID]string{
	StLobby:     "StLobby",
	StAnte:      "StAnte",
	StInsurance: "StInsurance",
	StTurn:      "StTurn",
	StDealer:    "StDealer",
	StPayout:    "StPayout",
}

func (s StageID) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StageID(%d)", s)
}

/*
	Stage wraps the current phase with its deadline bookkeeping.
*/

type Stage struct {
	mu       sync.RWMutex
	State    StageID
	Prev     StageID
	TimerID  int64
	StartAt  time.Time
	Duration time.Duration
}

func (s *Stage) Remaining() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	elapsed := time.Since(s.StartAt)
	if elapsed > s.Duration {
		return 0
	}
	return s.Duration - elapsed
}

func (s *Stage) GetState() StageID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

func (s *Stage) GetTimerID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.TimerID
}

func (s *Stage) Set(state StageID, duration time.Duration, timerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Prev = s.State
	s.State = state
	s.StartAt = time.Now()
	s.Duration = duration
	s.TimerID = timerID
}

func (s *Stage) Desc() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("[%v -> %v, dur=%v]", s.Prev, s.State, s.Duration)
}
