package main

import (
	"fmt"
	"os"
)

// outputHuman writes a status line to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// exitWithError writes an error to stderr and exits with the given code.
func exitWithError(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(code)
}
