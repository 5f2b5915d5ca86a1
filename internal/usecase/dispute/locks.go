package usecase

import "sync"

// contractLockSet hands out one mutex per contract id. Locks are never
// evicted; the contract population is bounded.
type contractLockSet struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newContractLockSet() *contractLockSet {
	return &contractLockSet{locks: make(map[string]*sync.Mutex)}
}

func (s *contractLockSet) forContract(contractID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[contractID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[contractID] = lock
	}
	return lock
}
