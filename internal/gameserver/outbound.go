package gameserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/cory-johannsen/mazeio/internal/game/session"
)

// ErrTooManyWriteFailures is returned when consecutive outbound writes to one
// client fail more often than Policy.MaxWriteFailures allows. The connection is
// then treated as disconnected.
var ErrTooManyWriteFailures = errors.New("too many consecutive write failures")

var (
	errWriteTimeout = errors.New("write timed out")
	errWriteBusy    = errors.New("previous write still pending")
)

// Policy is the per-connection timeout and failure budget applied to every
// outbound write and inbound read.
type Policy struct {
	// WriteTimeout bounds a single outbound write. Zero waits indefinitely.
	WriteTimeout time.Duration
	// ReadPollInterval is how long the inbound loop waits before logging an idle cycle.
	// Zero disables idle polling.
	ReadPollInterval time.Duration
	// MaxWriteFailures is the number of consecutive failed writes that ends the connection.
	MaxWriteFailures int
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		WriteTimeout:     250 * time.Millisecond,
		ReadPollInterval: 250 * time.Millisecond,
		MaxWriteFailures: 5,
	}
}

// timedSender writes to an Outbound with a timeout and counts consecutive failures.
//
// A write that times out is abandoned, not retried; its update is lost. While an
// abandoned write is still blocked on the transport, later updates are dropped
// instead of racing it, since Outbound implementations need not be safe for
// concurrent Send.
//
// timedSender is used from a single goroutine.
type timedSender struct {
	out      Outbound
	policy   Policy
	inflight chan error
	failures int
}

func newTimedSender(out Outbound, policy Policy) *timedSender {
	return &timedSender{out: out, policy: policy}
}

// send writes p. It returns nil on success, a transient error when this update
// was dropped, or an error wrapping ErrTooManyWriteFailures once the budget is spent.
func (w *timedSender) send(p session.Player) error {
	if w.inflight != nil {
		select {
		case err := <-w.inflight:
			w.inflight = nil
			if err != nil {
				if ferr := w.fail(err); errors.Is(ferr, ErrTooManyWriteFailures) {
					return ferr
				}
			}
		default:
			return w.fail(errWriteBusy)
		}
	}

	done := make(chan error, 1)
	go func() { done <- w.out.Send(p) }()

	if w.policy.WriteTimeout <= 0 {
		return w.result(<-done)
	}
	timer := time.NewTimer(w.policy.WriteTimeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return w.result(err)
	case <-timer.C:
		w.inflight = done
		return w.fail(errWriteTimeout)
	}
}

// drain waits up to grace for an abandoned write to finish.
func (w *timedSender) drain(grace time.Duration) {
	if w.inflight == nil {
		return
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-w.inflight:
	case <-timer.C:
	}
	w.inflight = nil
}

func (w *timedSender) result(err error) error {
	if err == nil {
		w.failures = 0
		return nil
	}
	return w.fail(err)
}

func (w *timedSender) fail(err error) error {
	w.failures++
	if w.policy.MaxWriteFailures > 0 && w.failures >= w.policy.MaxWriteFailures {
		return fmt.Errorf("%w (%d): %v", ErrTooManyWriteFailures, w.failures, err)
	}
	return err
}
