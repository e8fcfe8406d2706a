// Package stream provides a hot, multicast, replay-latest value stream.
//
// A Value caches the most recently published element and replays it to every
// new subscriber, then pushes each later element. Delivery is conflated per
// subscriber: a slow reader skips intermediate values and always ends up
// with the latest one, and a publisher never blocks on a reader.
//
// Usage:
//
//	v := stream.NewValue[int]()
//	sub := v.Subscribe()
//	defer sub.Cancel()
//	v.Publish(1)
//	for x := range sub.C() {
//	    ...
//	}
package stream
