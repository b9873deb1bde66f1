/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package edit

import "errors"

// ErrMalformed is returned when an edit string does not have the
// "<position> <deleted-length> <inserted text>" shape.
var ErrMalformed = errors.New("malformed edit")

// ErrOutOfRange is returned when an edit reaches outside the text it is
// applied to.
var ErrOutOfRange = errors.New("edit out of range")
