// Package main contains the mdtsql command line tool. It uses the cobra
// package for the cli implementation.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
