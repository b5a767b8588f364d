package cache

// KeySerializer builds a cache key from a method name + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// Store exposes the key/value operations the task repository needs from a
// cache backend. Entries may disappear on their own (TTL expiry, capacity
// eviction); callers must treat a missing key as "unknown", never as "absent".
type Store[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	DeleteByPrefix(prefix string)
	Len() int
}
