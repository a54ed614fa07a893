// Package keylock serializa las mutaciones sobre una misma entidad (producto,
// mesa, caja) con un mutex por clave. Es el contrato de concurrencia explícito
// del núcleo: dos addLine concurrentes sobre el mismo producto, o dos débitos
// sobre la misma caja, nunca se intercalan dentro de su sección crítica.
package keylock

import (
	"fmt"
	"sort"
	"sync"
)

type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock toma los mutexes de todas las claves dadas, en orden lexicográfico
// para evitar interbloqueos entre llamadas que comparten claves. Devuelve la
// función que los libera (en orden inverso).
func (k *KeyedMutex) Lock(keys ...string) (unlock func()) {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	// Deduplicar: bloquear dos veces la misma clave se trabaría solo.
	uniq := sorted[:0]
	for i, key := range sorted {
		if i == 0 || key != sorted[i-1] {
			uniq = append(uniq, key)
		}
	}

	entries := make([]*entry, 0, len(uniq))
	for _, key := range uniq {
		entries = append(entries, k.acquire(key))
	}
	for _, e := range entries {
		e.mu.Lock()
	}

	locked := uniq
	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
			k.release(locked[i])
		}
	}
}

func (k *KeyedMutex) acquire(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *KeyedMutex) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(k.locks, key)
	}
}

// Claves canónicas usadas por los servicios.

func ProductKey(id uint) string { return fmt.Sprintf("product:%d", id) }

func TableKey(id uint) string { return fmt.Sprintf("table:%d", id) }

// RegisterKey serializa los movimientos de saldo de una instancia de caja.
func RegisterKey(id uint) string { return fmt.Sprintf("register:%d", id) }

// RegisterNumberKey serializa la apertura/cierre por número físico de caja.
func RegisterNumberKey(number int) string { return fmt.Sprintf("register-number:%d", number) }

// Default es la instancia compartida por todos los servicios del proceso.
var Default = New()
