// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package dj

import "nickandperla.net/dj/internal/stdlib"

// DefaultPrelude contains the standard library definitions that are
// automatically loaded unless WithNoStdlib is given.
var DefaultPrelude = stdlib.Prelude
