package resource

import (
	"context"
	"log/slog"
	"sync"
)

// RecordState is a point-in-time copy of a Record's view state.
type RecordState[T any] struct {
	Value   T
	Loaded  bool
	Loading bool
	Error   string
}

// Record is the view state of a card backed by a single document, such as
// the student's profile. It follows the same sequencing and unmount rules
// as Controller.
type Record[T any] struct {
	name      string
	fetch     func(ctx context.Context) (T, error)
	normalize func(T) T
	loadMsg   string

	mu       sync.Mutex
	value    T
	loaded   bool
	inflight int
	err      string
	seq      uint64
	mounted  bool
	dead     bool
}

// NewRecord returns an unmounted Record. normalize may be nil.
func NewRecord[T any](name string, fetch func(ctx context.Context) (T, error), normalize func(T) T, loadMsg string) *Record[T] {
	return &Record[T]{name: name, fetch: fetch, normalize: normalize, loadMsg: loadMsg}
}

// Snapshot returns a copy of the current state.
func (r *Record[T]) Snapshot() RecordState[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RecordState[T]{Value: r.value, Loaded: r.loaded, Loading: r.inflight > 0, Error: r.err}
}

// Mount runs the first fetch. Later calls are no-ops.
func (r *Record[T]) Mount(ctx context.Context) error {
	r.mu.Lock()
	if r.dead {
		r.mu.Unlock()
		return ErrUnmounted
	}
	if r.mounted {
		r.mu.Unlock()
		return nil
	}
	r.mounted = true
	r.mu.Unlock()

	return r.Refresh(ctx)
}

// Unmount drops any response that lands afterwards.
func (r *Record[T]) Unmount() {
	r.mu.Lock()
	r.dead = true
	r.mu.Unlock()
}

// Refresh re-reads the document.
func (r *Record[T]) Refresh(ctx context.Context) error {
	r.mu.Lock()
	if r.dead {
		r.mu.Unlock()
		return ErrUnmounted
	}
	r.inflight++
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	v, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dead {
		return ErrUnmounted
	}
	r.inflight--
	if seq != r.seq {
		return ErrStale
	}
	if err != nil {
		slog.Debug("fetch failed",
			slog.String("resource", r.name),
			slog.String("error", err.Error()))
		r.err = r.loadMsg
		return err
	}
	if r.normalize != nil {
		v = r.normalize(v)
	}
	r.value = v
	r.loaded = true
	r.err = ""
	return nil
}
