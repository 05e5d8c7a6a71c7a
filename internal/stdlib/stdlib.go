// Package stdlib embeds the dj source loaded into every runtime before user
// code runs.
package stdlib

import _ "embed"

//go:embed prelude.dj
var Prelude string
