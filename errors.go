package dlsim

import "errors"

// ErrQueueFull is returned by [Channel.Transmit] when a direction's FIFO
// has no room left for another frame. This is fatal per the channel's
// error conditions.
var ErrQueueFull = errors.New("dlsim: queue full")

// ErrOutOfOrder is returned by the network-layer sink when a delivered
// packet's counter does not equal the previously delivered counter plus
// one. This is a protocol violation and aborts the run.
var ErrOutOfOrder = errors.New("dlsim: protocol error, packet delivered out of order")

// ErrDeadlock is returned by [Engine.Run] when both endpoints have been
// idle for at least three timeout intervals.
var ErrDeadlock = errors.New("dlsim: a deadlock has been detected")

// ErrInvalidArgument is wrapped by configuration errors reported before
// a simulation starts.
var ErrInvalidArgument = errors.New("dlsim: invalid argument")

// ErrImpossibleTimerState is returned if check_timers claims a timer is
// due but no slot actually matches lowestTimer. The timer bank's offset
// discipline is supposed to make this unreachable; returning an error
// here (rather than panicking) keeps the invariant auditable by tests.
var ErrImpossibleTimerState = errors.New("dlsim: impossible timer state")
