// ccem - Claude Code Environment Manager
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/ccem

package main

import (
	"os"

	"github.com/ariel-frischer/ccem/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
