package hashmap

import "sync"

// NormalMap implements the Map interface by wrapping the builtin map type with a RWMutex
type NormalMap[K comparable, V any] struct {
	mtx        sync.RWMutex
	underlying map[K]V
}

var _ Map[int, any] = (*NormalMap[int, any])(nil)

// NewNormal creates a new normal thread safe Map
func NewNormal[K comparable, V any]() *NormalMap[K, V] {
	return &NormalMap[K, V]{
		underlying: make(map[K]V),
	}
}

// Size returns the amount of stored key-value pairs
func (obj *NormalMap[K, V]) Size() int {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return len(obj.underlying)
}

// Has returns whether a value is assigned to the given key
func (obj *NormalMap[K, V]) Has(key K) bool {
	_, ok := obj.Lookup(key)
	return ok
}

// Lookup returns the value assigned to the given key and a boolean indicating if the value was set manually or is
// the type's zero value
func (obj *NormalMap[K, V]) Lookup(key K) (V, bool) {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	val, ok := obj.underlying[key]
	return val, ok
}

// Set sets a key-value pair
func (obj *NormalMap[K, V]) Set(key K, value V) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.underlying[key] = value
}

// Unset deletes the value assigned to given key
func (obj *NormalMap[K, V]) Unset(key K) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	delete(obj.underlying, key)
}

// DeleteFunc deletes every key-value pair the predicate matches and returns the amount of deleted pairs
func (obj *NormalMap[K, V]) DeleteFunc(predicate func(key K, value V) bool) int {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	deleted := 0
	for key, val := range obj.underlying {
		if predicate(key, val) {
			delete(obj.underlying, key)
			deleted++
		}
	}
	return deleted
}
