package service

import (
	"sync"
)

// keyedMutex serializes work per conversation id so that racing requests
// for the same conversation append their turns in submission order, while
// requests for different conversations never block each other. Mutexes are
// never reclaimed; like the conversation history itself, the set grows
// with the number of distinct ids seen.
type keyedMutex struct {
	locks sync.Map // id -> *sync.Mutex
}

// lock acquires the mutex for id and returns its unlock func.
func (k *keyedMutex) lock(id string) func() {
	v, _ := k.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
