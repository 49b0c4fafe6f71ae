// Package app wires the command line tools to the extract, geoerr and
// synth packages.
package app

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/fabian-stettler/mlat-server-wiedehopf-wipro/internal/extract"
	"github.com/fabian-stettler/mlat-server-wiedehopf-wipro/internal/geoerr"
	"github.com/fabian-stettler/mlat-server-wiedehopf-wipro/internal/synth"
)

// NewLogger builds the shared logger; verbose switches to debug level.
func NewLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// RunExtract filters aircraft entries with coordinates and merges them
// into the output file, flat or as position history.
func RunExtract(config ExtractConfig, logger *logrus.Logger) error {
	aircraft, err := extract.LoadAircraft(config.AircraftPath)
	if err != nil {
		return err
	}
	filtered := extract.FilterWithCoordinates(aircraft)
	logger.WithFields(logrus.Fields{
		"total":            len(aircraft),
		"with_coordinates": len(filtered),
	}).Info("Filtered aircraft entries")

	// Without an output file the filtered set goes to stdout as-is.
	if config.OutputPath == "" {
		return extract.Write(filtered, "", config.Pretty)
	}

	if config.History {
		existing, err := extract.LoadHistoryOutput(config.OutputPath)
		if err != nil {
			return err
		}
		updated := extract.MergeHistory(existing, filtered)
		return extract.Write(updated, config.OutputPath, config.Pretty)
	}

	existing, err := extract.LoadFlatOutput(config.OutputPath)
	if err != nil {
		return err
	}
	updated := extract.MergeFlat(existing, filtered)
	return extract.Write(updated, config.OutputPath, config.Pretty)
}

// RunPosError compares multilateration solutions against the ADS-B
// reference entries and prints the error report.
func RunPosError(config PosErrorConfig, logger *logrus.Logger) error {
	mlat, err := geoerr.LoadPseudoranges(config.PseudorangePath)
	if err != nil {
		return err
	}
	logger.WithField("aircraft", len(mlat)).Info("Loaded MLAT positions")

	adsb, err := geoerr.LoadReference(config.EntriesPath)
	if err != nil {
		return err
	}
	logger.WithField("aircraft", len(adsb)).Info("Loaded ADS-B reference positions")

	samples := geoerr.CalculateErrors(mlat, adsb, config.TimeWindow)
	report := geoerr.Summarize(samples)
	fmt.Print(report.Format())

	if len(samples) > 0 && config.DetailsPath != "" {
		if err := geoerr.SaveDetailed(samples, config.DetailsPath); err != nil {
			return err
		}
		logger.WithField("path", config.DetailsPath).Info("Saved detailed results")
	}
	return nil
}

// RunSynth loads a scenario and writes the synthesized Beast stream.
func RunSynth(config SynthConfig, logger *logrus.Logger) error {
	scenario, err := synth.Load(config.ScenarioPath)
	if err != nil {
		return err
	}

	out := os.Stdout
	if config.OutputPath != "" {
		file, err := os.Create(config.OutputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	written, err := synth.New(logger).Run(scenario, out)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"targets": len(scenario.Targets),
		"frames":  written,
	}).Info("Synthesized Beast frames")
	return nil
}
