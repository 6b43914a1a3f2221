// Command nutrition is a terminal front end for the nutrition API. The
// targets and plan commands work offline; the rest talk to the server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
