package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	k := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(ProductKey(1))
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestLockDuplicateKeysDoesNotDeadlock(t *testing.T) {
	k := New()

	unlock := k.Lock(TableKey(3), ProductKey(9), TableKey(3))
	unlock()
}

func TestLockOrderIndependent(t *testing.T) {
	k := New()

	// Dos goroutines tomando las mismas claves en orden opuesto no deben
	// interbloquearse: Lock ordena internamente.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := k.Lock(ProductKey(1), RegisterNumberKey(2))
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := k.Lock(RegisterNumberKey(2), ProductKey(1))
			unlock()
		}()
	}
	wg.Wait()
}

func TestLockReleasesEntries(t *testing.T) {
	k := New()

	unlock := k.Lock(ProductKey(7))
	unlock()

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks)
}
