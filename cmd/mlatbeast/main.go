package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fabian-stettler/mlat-server-wiedehopf-wipro/internal/app"
	"github.com/fabian-stettler/mlat-server-wiedehopf-wipro/internal/geoerr"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mlatbeast",
		Short: "MLAT Beast frame toolbox",
		Long: `Tools around synthesized Mode S Extended Squitter frames.

Extracts positioned aircraft entries from aircraft.json, compares MLAT
solutions against ADS-B reference positions, and synthesizes Beast
format frame streams from target scenarios.`,
	}

	var extractConfig app.ExtractConfig
	extractCmd := &cobra.Command{
		Use:   "extract [aircraft.json]",
		Short: "Extract aircraft entries that contain lat/lon coordinates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				extractConfig.AircraftPath = args[0]
			}
			return app.RunExtract(extractConfig, app.NewLogger(extractConfig.Verbose))
		},
	}
	extractCmd.Flags().StringVarP(&extractConfig.OutputPath, "output", "o", app.DefaultEntriesPath, "Output file (empty for stdout)")
	extractCmd.Flags().BoolVar(&extractConfig.Pretty, "pretty", false, "Pretty-print JSON with indentation")
	extractCmd.Flags().BoolVar(&extractConfig.History, "history", false, "Append timestamped entries per ICAO (preserve history)")
	extractCmd.Flags().BoolVarP(&extractConfig.Verbose, "verbose", "v", false, "Verbose logging")
	extractConfig.AircraftPath = app.DefaultAircraftPath

	var posErrorConfig app.PosErrorConfig
	posErrorCmd := &cobra.Command{
		Use:   "poserror",
		Short: "Compare MLAT positions against ADS-B reference positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunPosError(posErrorConfig, app.NewLogger(posErrorConfig.Verbose))
		},
	}
	posErrorCmd.Flags().StringVar(&posErrorConfig.PseudorangePath, "pseudorange", app.DefaultPseudorangePath, "MLAT pseudorange NDJSON file")
	posErrorCmd.Flags().StringVar(&posErrorConfig.EntriesPath, "entries", app.DefaultEntriesPath, "ADS-B reference entries file")
	posErrorCmd.Flags().StringVar(&posErrorConfig.DetailsPath, "details", app.DefaultErrorsPath, "Detailed results output file (empty to skip)")
	posErrorCmd.Flags().Float64Var(&posErrorConfig.TimeWindow, "time-window", geoerr.DefaultTimeWindow, "Maximum MLAT/ADS-B time difference in seconds")
	posErrorCmd.Flags().BoolVarP(&posErrorConfig.Verbose, "verbose", "v", false, "Verbose logging")

	var synthConfig app.SynthConfig
	synthCmd := &cobra.Command{
		Use:   "synth scenario.yaml",
		Short: "Synthesize a Beast frame stream from a target scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			synthConfig.ScenarioPath = args[0]
			return app.RunSynth(synthConfig, app.NewLogger(synthConfig.Verbose))
		},
	}
	synthCmd.Flags().StringVarP(&synthConfig.OutputPath, "output", "o", "", "Output file (empty for stdout)")
	synthCmd.Flags().BoolVarP(&synthConfig.Verbose, "verbose", "v", false, "Verbose logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			app.ShowVersion()
		},
	}

	rootCmd.AddCommand(extractCmd, posErrorCmd, synthCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
