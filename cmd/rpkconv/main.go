// Command rpkconv converts between PNG and RPK images from the command
// line.
//
// Usage:
//
//	rpkconv <input> <output>
//
// If input ends in ".png", the input is decoded as PNG and encoded as RPK
// to output. Otherwise input is decoded as RPK and encoded as PNG to
// output. There are no other flags (spec §6).
package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/quintopia/rpk"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: rpkconv <input> <output>")
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "rpkconv: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if strings.ToLower(filepath.Ext(inputPath)) == ".png" {
		img, err := png.Decode(in)
		if err != nil {
			return fmt.Errorf("decoding PNG: %w", err)
		}
		return rpk.Encode(out, img, nil)
	}

	img, err := rpk.Decode(in)
	if err != nil {
		return fmt.Errorf("decoding RPK: %w", err)
	}
	return png.Encode(out, img)
}
