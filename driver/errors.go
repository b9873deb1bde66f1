/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package driver

import "errors"

// ErrConfiguration wraps failures that abort the whole invocation: an
// unknown explicit scope or an edit that cannot be applied.
var ErrConfiguration = errors.New("configuration error")

// ErrHadErrors is returned when at least one file failed to read, failed to
// resolve a language, or parsed with syntax errors. Per-file messages have
// already been written by then.
var ErrHadErrors = errors.New("one or more files had errors")
