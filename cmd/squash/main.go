// Package main provides the squash CLI for compressing and decompressing
// single files with gzip, zstd, lz4 or zip.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
