package main

import (
	"github.com/rileyhilliard/hazmon/internal/cli"
)

// Set via ldflags, e.g.
//
//	go build -ldflags "-X main.version=0.3.0 -X main.commit=$(git rev-parse --short HEAD)" ./cmd/hazmon
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	cli.Execute()
}
