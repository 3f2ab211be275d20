package network

// newUnboundedQueue returns a (send, receive) pair of channels backed by a
// goroutine that holds pending values in a growable slice instead of a
// fixed-capacity buffer, so neither side ever blocks on queue depth. This
// is spec.md §9's requirement that the outbound and consumer queues "remain
// unbounded FIFOs" rendered in Go: a plain `make(chan T, N)` changes
// ordering/backpressure semantics the moment N is exceeded, so the queue
// itself has to be this adapter rather than a buffered channel. Grounded on
// the select-driven, neither-side-blocks idiom in
// minis/20-select-fanin-fanout/exercise/solution.go, generalized from
// fan-in/fan-out to a single grow-as-needed buffer.
//
// Closing the returned send channel drains whatever is still buffered to
// the receive channel and then closes it, so a consumer ranging over the
// receive channel always sees every value that was ever sent before
// terminating.
func newUnboundedQueue[T any]() (chan<- T, <-chan T) {
	in := make(chan T)
	out := make(chan T)

	go func() {
		defer close(out)
		var buf []T
		for {
			if len(buf) == 0 {
				v, ok := <-in
				if !ok {
					return
				}
				buf = append(buf, v)
				continue
			}

			select {
			case v, ok := <-in:
				if !ok {
					for _, pending := range buf {
						out <- pending
					}
					return
				}
				buf = append(buf, v)
			case out <- buf[0]:
				buf = buf[1:]
			}
		}
	}()

	return in, out
}
