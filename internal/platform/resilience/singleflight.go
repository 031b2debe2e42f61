package resilience

import "golang.org/x/sync/singleflight"

// SingleFlight deduplicates concurrent calls for the same key and hands
// every waiter the typed result of the one call that ran.
type SingleFlight[V any] struct {
	group singleflight.Group
}

// Do runs fn once per key among concurrent callers. shared reports whether
// the result was handed to more than one caller.
func (f *SingleFlight[V]) Do(key string, fn func() (V, error)) (v V, err error, shared bool) {
	out, err, shared := f.group.Do(key, func() (any, error) {
		return fn()
	})
	if out != nil {
		v = out.(V)
	}
	return v, err, shared
}

// Forget drops key so the next Do starts a fresh call.
func (f *SingleFlight[V]) Forget(key string) {
	f.group.Forget(key)
}
