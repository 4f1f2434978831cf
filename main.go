// booru-prompt extracts Danbooru post tags as prompt text.
//
// Build with:
//
//	go build -ldflags "-X github.com/booru-prompt/booru-prompt/internal/version.Version=v0.1.0" .
package main

import (
	"os"

	"github.com/booru-prompt/booru-prompt/internal/cli"
	"github.com/booru-prompt/booru-prompt/internal/version"
)

func main() {
	// Propagate version from the single source of truth (internal/version)
	cli.Version = version.Version
	cli.BuildTime = version.BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
