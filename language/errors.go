/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package language

import "errors"

// ErrUnknownScope is returned when a scope was explicitly requested but no
// known language has it.
var ErrUnknownScope = errors.New("unknown scope")

// ErrNoLanguage is returned when no language could be resolved for a file.
var ErrNoLanguage = errors.New("no language found")
