package network

import "testing"

func TestUnboundedQueuePreservesOrderAndNeverBlocksSend(t *testing.T) {
	in, out := newUnboundedQueue[int]()

	// Send far more values than any reasonable fixed buffer would hold,
	// with nothing draining out yet, to prove the send side never blocks
	// on queue depth.
	const n = 10_000
	for i := 0; i < n; i++ {
		in <- i
	}
	close(in)

	got := 0
	for v := range out {
		if v != got {
			t.Fatalf("out-of-order value at %d: got %d", got, v)
		}
		got++
	}
	if got != n {
		t.Fatalf("drained %d values, want %d", got, n)
	}
}

func TestUnboundedQueueClosesOutputAfterDrain(t *testing.T) {
	in, out := newUnboundedQueue[string]()
	in <- "a"
	in <- "b"
	close(in)

	var got []string
	for v := range out {
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got = %v, want [a b]", got)
	}
}
