package intake

import _ "embed"

// Version is the release version of the intake module and CLI.
//
//go:embed VERSION
var Version string
