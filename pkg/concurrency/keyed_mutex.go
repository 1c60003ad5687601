// Package concurrency 동시성 제어를 위한 보조 도구를 제공합니다.
package concurrency

import (
	"sync"
)

// KeyedMutex 문자열 키별로 독립적인 잠금을 제공합니다.
// 같은 키에 대한 작업은 직렬화되고, 서로 다른 키에 대한 작업은 병렬로 진행됩니다.
//
// 키별 잠금 객체는 참조 카운트로 관리되어 대기자가 없어지면 맵에서 제거되므로,
// 키의 종류가 많아도 메모리가 무한정 늘어나지 않습니다.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedMutexEntry
	pool    sync.Pool
}

type keyedMutexEntry struct {
	mu       sync.Mutex
	refCount int
}

// NewKeyedMutex 새로운 KeyedMutex를 생성합니다.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[string]*keyedMutexEntry),
		pool: sync.Pool{
			New: func() interface{} {
				return &keyedMutexEntry{}
			},
		},
	}
}

// Lock 지정된 키의 잠금을 획득합니다. 이미 다른 고루틴이 같은 키를
// 잠갔으면 해제될 때까지 대기합니다.
func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	e, ok := km.entries[key]
	if !ok {
		e = km.pool.Get().(*keyedMutexEntry)
		e.refCount = 1
		km.entries[key] = e
	} else {
		e.refCount++
	}
	km.mu.Unlock()

	e.mu.Lock()
}

// Unlock 지정된 키의 잠금을 해제합니다.
// 잠기지 않은 키를 해제하면 런타임 패닉이 발생합니다.
func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	defer km.mu.Unlock()

	e, ok := km.entries[key]
	if !ok {
		panic("잠기지 않은 키의 잠금 해제 시도: " + key)
	}

	e.mu.Unlock()

	// 마지막 대기자가 떠나면 키를 정리한다
	e.refCount--
	if e.refCount <= 0 {
		delete(km.entries, key)
		km.pool.Put(e)
	}
}

// WithLock 지정된 키의 잠금을 쥔 상태로 fn을 실행합니다.
// fn이 패닉하더라도 잠금은 해제됩니다.
func (km *KeyedMutex) WithLock(key string, fn func()) {
	km.Lock(key)
	defer km.Unlock(key)

	fn()
}

// Len 현재 잠겨 있거나 대기자가 있는 키의 개수를 반환합니다.
func (km *KeyedMutex) Len() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.entries)
}
