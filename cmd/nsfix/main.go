// Nsfix normalizes the XML namespace declarations inside HWPX documents.
package main

import (
	"os"

	"github.com/benjaminschreck/go-nsfix/cmd/nsfix/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
