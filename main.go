// Package main is the entry point for the obspy-runtests command-line tool.
package main

import "obspy.org/pkg/runtests/cmd"

func main() {
	cmd.Execute()
}
