package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	a := newApp(version)
	if err := a.execute(a.newRootCommand()); err != nil {
		os.Exit(1)
	}
}
