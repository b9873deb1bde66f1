/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

import (
	"context"
	"math"
	"sync/atomic"
	"time"
)

// Bound limits a single parse. A nil Cancel and a zero Timeout leave the
// parse unbounded. Each parse starts its own timeout clock.
type Bound struct {
	// Cancel stops the parse at the engine's next safe point once it is
	// set. Another goroutine may set it at any time.
	Cancel *atomic.Bool

	// Timeout is the wall-clock budget of one parse.
	Timeout time.Duration
}

// maxMicros is the largest microsecond count a time.Duration can hold.
const maxMicros = uint64(math.MaxInt64 / int64(time.Microsecond))

// Micros converts a timeout in microseconds to a Duration. Counts too
// large for a Duration saturate at the longest one, which no parse reaches.
func Micros(us uint64) time.Duration {
	if us > maxMicros {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(us) * time.Microsecond
}

// CancelOnDone sets flag once ctx is done, before returning when ctx is
// already done. Calling stop detaches the flag from ctx.
func CancelOnDone(ctx context.Context, flag *atomic.Bool) (stop func() bool) {
	if ctx.Err() != nil {
		flag.Store(true)
	}
	return context.AfterFunc(ctx, func() {
		flag.Store(true)
	})
}

type watch struct {
	cancel   *atomic.Bool
	deadline time.Time
	reason   error
}

func (b Bound) start() *watch {
	w := &watch{cancel: b.Cancel}
	if b.Timeout > 0 {
		w.deadline = time.Now().Add(b.Timeout)
	}
	return w
}

// expired reports whether the parse must stop, recording why. Cancellation
// takes precedence over the timeout.
func (w *watch) expired() bool {
	if w.reason != nil {
		return true
	}
	switch {
	case w.cancel != nil && w.cancel.Load():
		w.reason = ErrCancelled
	case !w.deadline.IsZero() && !time.Now().Before(w.deadline):
		w.reason = ErrTimedOut
	}
	return w.reason != nil
}
