// Package main is the entry point for the matchstats CLI tool, which imports
// football match results and computes competition KPIs and derived tables.
package main

import "github.com/pable/go-match-stats/cmd"

func main() {
	cmd.Execute()
}
