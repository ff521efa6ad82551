// dotforge is a CLI utility that turns bitmap artwork and CSV dot
// grids into 3D-printable voxel meshes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "convert":
		cmdConvert(args)
	case "analyze", "assess":
		cmdAnalyze(args)
	case "stats":
		cmdStats(args)
	case "csv":
		cmdCSV(args)
	case "batch":
		cmdBatch(args)
	case "watch":
		cmdWatch(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`dotforge - dot pattern to 3D-printable mesh converter

Usage:
  dotforge <command> [options]

Commands:
  convert [options] <input>   Convert an image or CSV grid to an OBJ mesh
  analyze [options] <input>   Convert and print a print-quality report
  stats [options] <input>     Print mesh statistics for an input
  csv [options] <image>       Convert an image to a CSV dot grid
  batch [options] <plan.yaml> Run a parameter sweep from a YAML plan
  watch [options] <input>     Rebuild the mesh whenever the input changes
  config [-init]              Show or create the configuration file

Shared options (before the input path):
  -o path        output file (convert, csv, batch, watch)
  -config path   explicit dotforge.yaml
  -threshold n   luminance threshold 0-255
  -invert        invert active cells
  -no-base       skip the base plinth
  -optimize      merge coplanar faces after generation
  -debug         verbose logging

Examples:
  dotforge convert -o logo.obj logo.png
  dotforge convert -no-base -optimize grid.csv
  dotforge analyze -threshold 96 logo.png
  dotforge csv -o logo.csv logo.png
  dotforge batch sweep.yaml
  dotforge watch -o logo.obj logo.png`)
}
