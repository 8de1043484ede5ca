// Command fixmyward is a local client for Fix-My-Ward. It keeps one
// signed-in user in the session key of the configured store, the way a
// single browser tab would.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
