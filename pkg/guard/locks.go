package guard

import "sync"

// ipLocks hands out one mutex per IP so incident creation for an address
// is serialised inside the process. Entries are reference counted and
// removed once the last holder releases them.
type ipLocks struct {
	mu    sync.Mutex
	locks map[string]*ipLock
}

type ipLock struct {
	mu   sync.Mutex
	refs int
}

func newIPLocks() *ipLocks {
	return &ipLocks{
		locks: make(map[string]*ipLock),
	}
}

// lock blocks until the caller holds the per-IP mutex and returns the
// release function.
func (l *ipLocks) lock(ip string) func() {
	l.mu.Lock()

	entry, ok := l.locks[ip]
	if !ok {
		entry = &ipLock{}
		l.locks[ip] = entry
	}

	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--

		if entry.refs == 0 {
			delete(l.locks, ip)
		}
		l.mu.Unlock()
	}
}
