// file: main.go
// version: 2.0.0
// guid: 1f3b5d7a-9c0e-4b2d-a4f6-8e0a2c4e6b5c

package main

import (
	"fmt"
	"os"

	"github.com/jdfalk/drive-video-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
