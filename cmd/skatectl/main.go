// Command skatectl is a terminal client for the skate tracker API.
//
//	skatectl signup tony tony@example.com
//	skatectl login tony@example.com
//	skatectl tricks
//	skatectl add-trick 3
//	skatectl master 3
//	skatectl progress
//
// The session token is kept in the user config directory and reused by
// later invocations until logout.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
