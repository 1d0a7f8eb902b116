package hashmap

import (
	"time"

	"github.com/skybi/session-report/internal/task"
)

type expiringEntry[T any] struct {
	raw      T
	inserted time.Time
}

// ExpiringMap implements the Map interface and wraps a NormalMap in order to implement value expiration.
// Expired values are never returned; they are removed from memory by the cleanup task.
type ExpiringMap[K comparable, V any] struct {
	normal      *NormalMap[K, *expiringEntry[V]]
	lifetime    time.Duration
	cleanupTask *task.RepeatingTask
	now         func() time.Time
}

var _ Map[int, any] = (*ExpiringMap[int, any])(nil)

// NewExpiring creates a new expiring map whose values exist for a specific lifetime
func NewExpiring[K comparable, V any](lifetime time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		normal:   NewNormal[K, *expiringEntry[V]](),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// ScheduleCleanupTask schedules the task that removes expired values in a specific interval.
// StopCleanupTask has to be called as soon as the map is no longer needed.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(func() {
		obj.RemoveExpired()
	}, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the cleanup task
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	if obj.cleanupTask == nil {
		return
	}
	obj.cleanupTask.Stop(true)
	obj.cleanupTask = nil
}

// RemoveExpired removes all expired values and returns their amount
func (obj *ExpiringMap[K, V]) RemoveExpired() int {
	return obj.normal.DeleteFunc(func(_ K, val *expiringEntry[V]) bool {
		return obj.expired(val)
	})
}

func (obj *ExpiringMap[K, V]) expired(entry *expiringEntry[V]) bool {
	return obj.now().Sub(entry.inserted) > obj.lifetime
}

// Size returns the amount of stored key-value pairs, including expired ones that were not yet removed
func (obj *ExpiringMap[K, V]) Size() int {
	return obj.normal.Size()
}

// Has returns whether a non-expired value is assigned to the given key
func (obj *ExpiringMap[K, V]) Has(key K) bool {
	_, ok := obj.Lookup(key)
	return ok
}

// Lookup returns the non-expired value assigned to the given key
func (obj *ExpiringMap[K, V]) Lookup(key K) (V, bool) {
	val, ok := obj.normal.Lookup(key)
	if !ok || obj.expired(val) {
		var zero V
		return zero, false
	}
	return val.raw, true
}

// Set sets a key-value pair
func (obj *ExpiringMap[K, V]) Set(key K, value V) {
	obj.normal.Set(key, &expiringEntry[V]{
		raw:      value,
		inserted: obj.now(),
	})
}

// Unset deletes the value assigned to given key
func (obj *ExpiringMap[K, V]) Unset(key K) {
	obj.normal.Unset(key)
}
