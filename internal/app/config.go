package app

// Default input/output locations, matching the layout produced by the
// surrounding multilateration toolchain.
const (
	DefaultAircraftPath    = "workdir/aircraft.json"
	DefaultEntriesPath     = "extractedEntries/entries.json"
	DefaultPseudorangePath = "workdir/pseudorange.json"
	DefaultErrorsPath      = "mlat_errors.json"
)

// ExtractConfig holds the extract command configuration.
type ExtractConfig struct {
	AircraftPath string
	OutputPath   string
	Pretty       bool
	History      bool
	Verbose      bool
}

// PosErrorConfig holds the poserror command configuration.
type PosErrorConfig struct {
	PseudorangePath string
	EntriesPath     string
	DetailsPath     string
	TimeWindow      float64
	Verbose         bool
}

// SynthConfig holds the synth command configuration.
type SynthConfig struct {
	ScenarioPath string
	OutputPath   string
	Verbose      bool
}
