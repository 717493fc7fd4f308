// Command sentex loads sentence tools and extracts filtered sentences from
// text and HTML.
package main

import "os"

// Set by the build via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
