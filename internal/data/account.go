package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/yola1107/kratos/v2/log"

	"github.com/bgschiller/network-blackjack/internal/biz"
)

// accountStore maps wire id -> balance, backed by one json file. A missing
// file just means no accounts yet. The file is written atomically (temp file
// + rename) so a crash mid-flush cannot truncate the store.
type accountStore struct {
	mu       sync.Mutex
	path     string
	balances map[string]int64
}

func openAccountStore(path string) (*accountStore, error) {
	s := &accountStore{
		path:     path,
		balances: make(map[string]int64),
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Infof("no account file at %s, starting fresh", path)
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.balances); err != nil {
		return nil, err
	}
	log.Infof("loaded %d accounts from %s", len(s.balances), path)
	return s, nil
}

func (s *accountStore) Load(id string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cash, ok := s.balances[id]
	return cash, ok
}

func (s *accountStore) Set(id string, cash int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[id] = cash
}

func (s *accountStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(s.balances, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// NewAccountRepo exposes the store to the biz layer.
func NewAccountRepo(d *Data) biz.AccountRepo {
	return d.accounts
}
