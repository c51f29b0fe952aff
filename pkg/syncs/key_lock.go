package syncs

import "sync"

// KeyLock serializes access per key while letting independent keys proceed
// concurrently. The zero value is ready to use.
type KeyLock struct {
	locks sync.Map
}

// Lock acquires the mutex for key, blocking while another holder has it.
func (kl *KeyLock) Lock(key string) {
	l, _ := kl.locks.LoadOrStore(key, &sync.Mutex{})
	l.(*sync.Mutex).Lock()
}

// Unlock releases the mutex for key. It panics if the key was never locked.
func (kl *KeyLock) Unlock(key string) {
	l, ok := kl.locks.Load(key)
	if !ok {
		panic("syncs: unlock of unheld key " + key)
	}

	l.(*sync.Mutex).Unlock()
}
