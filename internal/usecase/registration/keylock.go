package registration

import "sync"

// keyLock hands out one mutex per key. Used to serialize accept transitions
// per professor profile; the map is bounded by the number of professors and
// never evicted.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}
