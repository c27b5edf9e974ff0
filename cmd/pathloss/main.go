package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/pathloss/internal/version"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var err error
	switch command {
	case "convert":
		err = handleConvert(args)
	case "fit":
		err = handleFit(args, os.Stdout)
	case "history":
		err = handleHistory(args, os.Stdout)
	case "migrate":
		err = handleMigrate(args, os.Stdout)
	case "version":
		fmt.Println(version.String())
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

func printUsage() {
	fmt.Println(`pathloss - path-loss model fitting for propagation measurements

Usage: pathloss <command> [options]

Commands:
  convert    Convert whitespace-delimited simulator output to CSV
  fit        Fit Floating Intercept and/or Close-In models to a measurement CSV
  history    List fit runs stored in a history database
  migrate    Manage history database schema migrations
  version    Show version information
  help       Show this help message

Examples:
  # Convert a Full3D ray-tracer dump
  pathloss convert --in full3d.txt --out full3d.csv --full3d

  # Fit both models at 28 GHz with a 1 m reference, saving plots and history
  pathloss fit --in meas.csv --freq 28 --png fit.png --html fit.html --db fits.db

  # Fit only CI using a config file, correcting for antenna height
  pathloss fit --in meas.csv --config config/fit.defaults.json --model ci --slant

  # Show the last 10 stored fits
  pathloss history --db fits.db --limit 10

  # Check the history database schema version
  pathloss migrate --db fits.db status`)
}
