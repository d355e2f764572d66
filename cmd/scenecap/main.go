// Command scenecap captures scenes, game views and object templates from an
// editor session described by a YAML fixture.
//
// Usage:
//
//	scenecap --scene scene.yaml scene --camera "Main Camera" --width 800 --height 600
//	scenecap --scene scene.yaml template Assets/Crate.prefab --front
//	scenecap list
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
