package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/banshee-data/pathloss/internal/chart"
	"github.com/banshee-data/pathloss/internal/config"
	"github.com/banshee-data/pathloss/internal/convert"
	"github.com/banshee-data/pathloss/internal/db"
	"github.com/banshee-data/pathloss/internal/fsutil"
	"github.com/banshee-data/pathloss/internal/pathloss"
)

// osFS is swapped for an in-memory filesystem in tests.
var osFS fsutil.FileSystem = fsutil.OSFileSystem{}

func handleConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	in := fs.String("in", "", "Simulator output text file (required)")
	out := fs.String("out", "", "Destination CSV file (required, overwritten)")
	full3D := fs.Bool("full3d", false, "Input uses the Full3D layout (ID X Y Z Distance Power Phase)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" || *out == "" {
		fs.Usage()
		return errors.New("--in and --out are required")
	}
	return convert.TxtToCSV(osFS, *in, *out, *full3D)
}

// fitOutcome collects the results of one fit invocation.
type fitOutcome struct {
	Table pathloss.Table
	FI    *pathloss.FIResult
	CI    *pathloss.CIResult
	Runs  []db.FitRun
}

func handleFit(args []string, stdout io.Writer) error {
	_, err := runFit(args, stdout)
	return err
}

func runFit(args []string, stdout io.Writer) (*fitOutcome, error) {
	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	in := fs.String("in", "", "Measurement CSV with a header row (required)")
	cfgPath := fs.String("config", "", "Fit configuration JSON file")
	model := fs.String("model", "", "Models to fit: fi, ci or both (default from config, else both)")
	freq := fs.Float64("freq", pathloss.DefaultFrequencyGHz, "Carrier frequency in GHz for the Close-In model")
	d0 := fs.Float64("d0", pathloss.DefaultReferenceDistance, "Close-In reference distance in metres")
	slant := fs.Bool("slant", false, "Convert horizontal distances to slant range using the antenna height offset")
	height := fs.Float64("height", 0, "Antenna height offset in metres for --slant (default from config, else 2.87)")
	pngPath := fs.String("png", "", "Write a PNG plot of the fit")
	htmlPath := fs.String("html", "", "Write an interactive HTML chart of the fit")
	dbPath := fs.String("db", "", "Record the fit in this SQLite history database")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *in == "" {
		fs.Usage()
		return nil, errors.New("--in is required")
	}

	cfg := config.DefaultFitConfig()
	if *cfgPath != "" {
		loaded, err := config.LoadFitConfig(*cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Explicit flags override the config file.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "freq":
			ghz := "ghz"
			cfg.Frequency, cfg.FrequencyUnits = freq, &ghz
		case "d0":
			cfg.ReferenceDistance = d0
		case "slant":
			cfg.SlantDistance = slant
		case "height":
			cfg.AntennaHeight = height
		case "model":
			models, err := parseModels(*model)
			if err != nil {
				flagErr = err
			}
			cfg.Models = models
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tbl, err := pathloss.LoadTable(*in, pathloss.ReadOptions{
		DistanceColumn: cfg.GetDistanceColumn(),
		LossColumn:     cfg.GetLossColumn(),
		SkipHeader:     true,
	})
	if err != nil {
		return nil, err
	}
	if cfg.GetSlantDistance() {
		tbl = tbl.WithSlantDistance(cfg.GetAntennaHeight())
	}
	log.Printf("Loaded %d measurements from %s", len(tbl), *in)

	outcome := &fitOutcome{Table: tbl}
	if cfg.WantsModel(config.ModelFI) {
		res, err := pathloss.FitFloatingIntercept(tbl)
		if err != nil {
			return nil, err
		}
		if err := pathloss.WriteFIReport(stdout, res); err != nil {
			return nil, err
		}
		outcome.FI = &res
	}
	if cfg.WantsModel(config.ModelCI) {
		res, err := pathloss.FitCloseIn(tbl, pathloss.CIOptions{
			FrequencyGHz:      cfg.GetFrequencyGHz(),
			ReferenceDistance: cfg.GetReferenceDistance(),
		})
		if err != nil {
			return nil, err
		}
		if err := pathloss.WriteCIReport(stdout, res); err != nil {
			return nil, err
		}
		outcome.CI = &res
	}

	set := chart.FitSet{Title: *in, Measurements: tbl, FI: outcome.FI, CI: outcome.CI}
	if *pngPath != "" {
		if err := chart.SavePNG(osFS, *pngPath, set); err != nil {
			return nil, err
		}
		log.Printf("Plot saved to %s", *pngPath)
	}
	if *htmlPath != "" {
		if err := chart.SaveHTML(osFS, *htmlPath, set); err != nil {
			return nil, err
		}
		log.Printf("Chart saved to %s", *htmlPath)
	}

	if *dbPath != "" {
		runs, err := recordRuns(*dbPath, *in, cfg.GetSlantDistance(), outcome)
		if err != nil {
			return nil, err
		}
		outcome.Runs = runs
	}

	return outcome, nil
}

func parseModels(s string) ([]string, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return []string{config.ModelFI, config.ModelCI}, nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		m, err := config.ParseModel(part)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func recordRuns(dbPath, source string, slant bool, o *fitOutcome) ([]db.FitRun, error) {
	database, err := db.NewDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	defer database.Close()

	var pending []db.FitRun
	if o.FI != nil {
		pending = append(pending, db.FitRunFromFI(source, len(o.Table), *o.FI))
	}
	if o.CI != nil {
		pending = append(pending, db.FitRunFromCI(source, len(o.Table), *o.CI))
	}

	var stored []db.FitRun
	for _, run := range pending {
		run.SlantDistance = slant
		saved, err := database.RecordFitRun(run)
		if err != nil {
			return nil, err
		}
		log.Printf("Recorded %s fit run %s", saved.Model, saved.RunID)
		stored = append(stored, saved)
	}
	return stored, nil
}

func handleHistory(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite history database (required)")
	limit := fs.Int("limit", 20, "Maximum number of runs to list (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return errors.New("--db is required")
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListFitRuns(*limit)
	if err != nil {
		return err
	}
	return writeHistory(stdout, runs)
}

func writeHistory(w io.Writer, runs []db.FitRun) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tMODEL\tSOURCE\tN\tPARAMS\tRMSE\tSHADOWING\tRUN ID")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%.4f\t%.4f\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Model, r.Source, r.Measurements,
			formatParams(r), r.RMSE, r.ShadowingStd, r.RunID)
	}
	return tw.Flush()
}

func formatParams(r db.FitRun) string {
	switch {
	case r.Alpha != nil && r.Beta != nil:
		return fmt.Sprintf("alpha=%.4f beta=%.4f", *r.Alpha, *r.Beta)
	case r.PLE != nil && r.FrequencyGHz != nil && r.ReferenceDistance != nil:
		return fmt.Sprintf("ple=%.4f f=%gGHz d0=%gm", *r.PLE, *r.FrequencyGHz, *r.ReferenceDistance)
	default:
		return "-"
	}
}

func handleMigrate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite history database (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		fs.Usage()
		return errors.New("--db is required")
	}
	return db.RunMigrateCommand(fs.Args(), *dbPath, stdout)
}
