// Package protocol implements the five data-link protocols the engine
// can drive: stop-and-wait, positive-ack-with-retransmission,
// one-bit sliding window, Go-Back-N, and selective repeat. Each
// implementation is a direct translation of the corresponding reference
// simulator routine (sender2/receiver2, sender3/receiver3, protocol4,
// protocol5, protocol6) into a [dlsim.Protocol], preserving every
// variable's role and every event-handling order.
package protocol
