package stream

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is the terminal error of a stream closed without a cause.
var ErrClosed = errors.New("stream closed")

// Value is a multicast stream of T that caches the latest element.
// The zero value is not usable; construct with NewValue or NewValueWith.
type Value[T any] struct {
	mu     sync.Mutex
	latest T
	has    bool
	subs   map[*Subscription[T]]struct{}
	closed bool
	err    error
}

// NewValue returns a stream with no cached element.
func NewValue[T any]() *Value[T] {
	return &Value[T]{subs: make(map[*Subscription[T]]struct{})}
}

// NewValueWith returns a stream whose cached element is initial.
func NewValueWith[T any](initial T) *Value[T] {
	v := NewValue[T]()
	v.latest = initial
	v.has = true
	return v
}

// Publish caches x and pushes it to every subscriber.
// Returns false if the stream is closed.
func (v *Value[T]) Publish(x T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return false
	}
	v.latest = x
	v.has = true
	for s := range v.subs {
		s.offer(x)
	}
	return true
}

// Latest returns the cached element, if any.
func (v *Value[T]) Latest() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.latest, v.has
}

// Subscribe registers a new subscriber. The cached element, if any, is
// delivered first. Subscribing to a closed stream yields a subscription
// that replays the cached element and then ends with the stream's error.
func (v *Value[T]) Subscribe() *Subscription[T] {
	s := &Subscription[T]{
		owner: v,
		ch:    make(chan T, 1),
		done:  make(chan struct{}),
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.has {
		s.ch <- v.latest
	}
	if v.closed {
		s.finish(v.err)
		return s
	}
	v.subs[s] = struct{}{}
	return s
}

// SubscribeContext is Subscribe with the subscription cancelled when ctx ends.
func (v *Value[T]) SubscribeContext(ctx context.Context) *Subscription[T] {
	s := v.Subscribe()
	go func() {
		select {
		case <-ctx.Done():
			s.Cancel()
		case <-s.done:
		}
	}()
	return s
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Close ends the stream. Subscribers observe ErrClosed.
func (v *Value[T]) Close() {
	v.CloseWithError(nil)
}

// CloseWithError ends the stream with a terminal error delivered to every
// subscriber through Err. Closing twice is a no-op.
func (v *Value[T]) CloseWithError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	if err == nil {
		err = ErrClosed
	}
	v.closed = true
	v.err = err
	for s := range v.subs {
		s.finish(err)
	}
	clear(v.subs)
}

// Closed reports whether the stream has ended.
func (v *Value[T]) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *Value[T]) remove(s *Subscription[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.subs[s]; !ok {
		return
	}
	delete(v.subs, s)
	s.finish(nil)
}
