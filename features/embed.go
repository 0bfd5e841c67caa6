// Package features embeds the Gherkin scenarios so the suite binary can run
// without a checkout.
package features

import "embed"

// FS holds every .feature file in this directory.
//
//go:embed *.feature
var FS embed.FS
