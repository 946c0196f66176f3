// Package main is the entry point for the wordlestats CLI tool, which scans
// Telegram chat exports for Wordle results and reports per-player statistics.
package main

import "github.com/pable/wordle-stats/cmd"

func main() {
	cmd.Execute()
}
