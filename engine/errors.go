/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

import "errors"

// ErrCancelled is returned when a parse stops because its cancellation flag
// was set.
var ErrCancelled = errors.New("parse cancelled")

// ErrTimedOut is returned when a parse exceeds its timeout.
var ErrTimedOut = errors.New("parse timed out")

// ErrNoLanguage is returned when parsing with a parser that has no language.
var ErrNoLanguage = errors.New("parser has no language")

// ErrEncodingMismatch is returned when an old tree was parsed in a different
// encoding than the text being parsed now.
var ErrEncodingMismatch = errors.New("old tree encoding does not match input")

// ErrNoTree is returned when the engine stops without a tree and without a
// bound having been reached.
var ErrNoTree = errors.New("engine returned no tree")
