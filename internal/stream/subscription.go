package stream

import "context"

// Subscription is one reader of a Value.
type Subscription[T any] struct {
	owner *Value[T]
	ch    chan T // buffered, size 1; written only under owner.mu
	done  chan struct{}
	ended bool
	err   error
}

// C returns the delivery channel. It is closed when the subscription ends.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Done is closed when the subscription ends.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err returns the terminal error once the subscription has ended because
// its stream closed. It is nil while live and after Cancel.
func (s *Subscription[T]) Err() error {
	s.owner.mu.Lock()
	defer s.owner.mu.Unlock()
	return s.err
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.owner.remove(s)
}

// Next blocks until the next element, the end of the subscription, or ctx
// cancellation. ok is false when no element was received.
func (s *Subscription[T]) Next(ctx context.Context) (x T, ok bool) {
	select {
	case x, ok = <-s.ch:
		return x, ok
	case <-ctx.Done():
		return x, false
	}
}

// offer delivers x, replacing any undelivered element. Caller holds owner.mu.
func (s *Subscription[T]) offer(x T) {
	select {
	case s.ch <- x:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- x
}

// finish ends the subscription. Caller holds owner.mu.
func (s *Subscription[T]) finish(err error) {
	if s.ended {
		return
	}
	s.ended = true
	s.err = err
	close(s.ch)
	close(s.done)
}
