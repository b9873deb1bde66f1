/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"
)

// WatchCancel sets flag when a line is read from in or when ctx is done,
// printing "Cancelling" to out. The returned function stops watching ctx;
// the reader goroutine ends with in.
func WatchCancel(ctx context.Context, in io.Reader, out io.Writer, flag *atomic.Bool) (stop func()) {
	cancel := func() {
		if flag.CompareAndSwap(false, true) {
			fmt.Fprintln(out, "Cancelling")
		}
	}

	if in != nil {
		go func() {
			if _, err := bufio.NewReader(in).ReadString('\n'); err == nil {
				cancel()
			}
		}()
	}

	detach := context.AfterFunc(ctx, cancel)
	return func() { detach() }
}
