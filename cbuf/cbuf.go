/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cbuf gives single-owner, sequential access to buffers that live
// outside the Go heap, and releases each buffer exactly once.
//
// All pointer arithmetic over such buffers happens in this package.
package cbuf

import (
	"iter"
	"runtime"
	"unsafe"
)

// Iter owns a buffer of count values of type T at ptr. Values are copied
// out one at a time, so a value stays usable after the buffer is released.
//
// The buffer is released when Close is called, whether none, some or all of
// the values were read. An Iter that becomes unreachable without being
// closed is released by the garbage collector instead. Close is idempotent;
// the release function never runs twice.
//
// An Iter is not safe for concurrent use.
type Iter[T any] struct {
	ptr     unsafe.Pointer
	count   int
	next    int
	release func(unsafe.Pointer)
	cleanup runtime.Cleanup
	closed  bool
}

// New takes ownership of the buffer at ptr.
//
// The caller asserts that ptr points to count contiguous values of T that
// release can free, that T contains no Go pointers, and that nothing else
// will free or write the buffer afterwards.
func New[T any](ptr unsafe.Pointer, count int, release func(unsafe.Pointer)) *Iter[T] {
	it := &Iter[T]{ptr: ptr, count: count, release: release}
	it.cleanup = runtime.AddCleanup(it, release, ptr)
	return it
}

// Next returns a copy of the next value, or false when the buffer is
// exhausted or the iterator has been closed.
func (it *Iter[T]) Next() (T, bool) {
	var v T
	if it.closed || it.next >= it.count {
		return v, false
	}
	v = *(*T)(unsafe.Add(it.ptr, uintptr(it.next)*unsafe.Sizeof(v)))
	it.next++
	runtime.KeepAlive(it)
	return v, true
}

// All yields the remaining values.
func (it *Iter[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Len returns the number of values not yet read.
func (it *Iter[T]) Len() int {
	if it.closed {
		return 0
	}
	return it.count - it.next
}

// Close releases the whole original buffer.
func (it *Iter[T]) Close() {
	if it.closed {
		return
	}
	it.closed = true
	it.cleanup.Stop()
	it.release(it.ptr)
	it.ptr = nil
}
