/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cbuf

// #include <stdlib.h>
import "C"

import "unsafe"

// Copy moves src into a C heap allocation and returns an iterator that owns
// it. The allocation is paired with Free.
func Copy[T any](src []T) *Iter[T] {
	var zero T
	size := uintptr(len(src)) * unsafe.Sizeof(zero)
	if size == 0 {
		return New[T](nil, len(src), Free)
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		panic("cbuf: out of memory")
	}
	copy(unsafe.Slice((*T)(ptr), len(src)), src)
	return New[T](ptr, len(src), Free)
}

// Free is the release function for buffers from the C allocator.
func Free(ptr unsafe.Pointer) {
	C.free(ptr)
}
