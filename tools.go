//go:build tools

package tools

import (
	// Linter
	_ "honnef.co/go/tools/cmd/staticcheck"
)
