// Package extract filters aircraft state files down to entries that
// carry a position and merges them into an output file, optionally
// keeping a per-aircraft history of position changes.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one aircraft state object as found in aircraft.json.
type Entry map[string]interface{}

// AircraftSet maps ICAO identifier to latest state entry.
type AircraftSet map[string]Entry

// Record is one timestamped history element for an aircraft.
type Record struct {
	TS    int64 `json:"ts"`
	Entry Entry `json:"entry"`
}

// History maps ICAO identifier to the ordered list of position changes.
type History map[string][]Record

// LoadAircraft reads an aircraft.json style object (ICAO -> entry).
func LoadAircraft(path string) (AircraftSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aircraft file: %w", err)
	}
	var set AircraftSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse aircraft file %s: %w", path, err)
	}
	return set, nil
}

// FilterWithCoordinates keeps only entries that carry both lat and lon.
func FilterWithCoordinates(set AircraftSet) AircraftSet {
	result := make(AircraftSet)
	for icao, entry := range set {
		_, hasLat := entry["lat"]
		_, hasLon := entry["lon"]
		if hasLat && hasLon {
			result[icao] = entry
		}
	}
	return result
}

// PositionsDiffer reports whether next represents a position change
// relative to prev. A missing previous entry always counts as a change.
func PositionsDiffer(prev, next Entry) bool {
	if prev == nil {
		return true
	}
	return prev["lat"] != next["lat"] || prev["lon"] != next["lon"]
}

// NowMillis is the timestamp source for history records, overridable in
// tests.
var NowMillis = func() int64 {
	return time.Now().UnixMilli()
}

// MergeFlat replaces each existing entry whose position changed and adds
// entries for aircraft not seen before.
func MergeFlat(existing, filtered AircraftSet) AircraftSet {
	updated := make(AircraftSet, len(existing)+len(filtered))
	for icao, entry := range existing {
		updated[icao] = entry
	}
	for icao, entry := range filtered {
		if PositionsDiffer(existing[icao], entry) {
			updated[icao] = entry
		}
	}
	return updated
}

// MergeHistory appends a timestamped record per aircraft whose position
// differs from the latest recorded one.
func MergeHistory(existing History, filtered AircraftSet) History {
	updated := make(History, len(existing)+len(filtered))
	for icao, records := range existing {
		updated[icao] = records
	}
	for icao, entry := range filtered {
		records := updated[icao]
		var last Entry
		if len(records) > 0 {
			last = records[len(records)-1].Entry
		}
		if PositionsDiffer(last, entry) {
			updated[icao] = append(records, Record{TS: NowMillis(), Entry: entry})
		}
	}
	return updated
}

// LoadFlatOutput reads a previously written flat output file. A missing
// file yields an empty set.
func LoadFlatOutput(path string) (AircraftSet, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return AircraftSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read output file: %w", err)
	}
	var set AircraftSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("existing output %s is not a JSON object: %w", path, err)
	}
	return set, nil
}

// LoadHistoryOutput reads a previously written history file. Legacy flat
// entries are normalized into one-element histories stamped now; a
// missing file yields an empty history.
func LoadHistoryOutput(path string) (History, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read output file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("existing output %s is not a JSON object: %w", path, err)
	}

	history := make(History, len(raw))
	for icao, value := range raw {
		var records []Record
		if err := json.Unmarshal(value, &records); err == nil {
			history[icao] = records
			continue
		}
		var entry Entry
		if err := json.Unmarshal(value, &entry); err == nil {
			history[icao] = []Record{{TS: NowMillis(), Entry: entry}}
			continue
		}
		history[icao] = nil
	}
	return history, nil
}

// Write serializes data as JSON, compact by default or indented when
// pretty is set, followed by a newline. An empty path writes to stdout;
// otherwise parent directories are created as needed.
func Write(data interface{}, path string, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("serialize output: %w", err)
	}
	out = append(out, '\n')

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
