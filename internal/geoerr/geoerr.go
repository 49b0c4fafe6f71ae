// Package geoerr compares multilateration solutions against ADS-B
// reference positions and summarizes the position error.
package geoerr

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/wroge/wgs84"
)

// Mean earth radius used for horizontal great-circle distances.
const earthRadiusM = 6371000.0

// Feet to meters.
const footM = 0.3048

// DefaultTimeWindow is the maximum time difference in seconds between a
// multilateration fix and its ADS-B reference.
const DefaultTimeWindow = 5.0

// MlatFix is one multilateration solution with its ECEF coordinate
// already converted to geodetic.
type MlatFix struct {
	Time        float64
	Lat         float64
	Lon         float64
	Alt         float64  // meters, from the ECEF solution
	ReportedAlt *float64 // feet, as reported by the aircraft
	Distinct    int
	Dof         int
	ECEF        [3]float64
}

// ADSBFix is one ADS-B reference position.
type ADSBFix struct {
	Time float64
	Lat  float64
	Lon  float64
	Alt  *float64 // feet
}

// pseudorangeRecord mirrors one entry of the pseudorange NDJSON stream.
type pseudorangeRecord struct {
	ICAO     string     `json:"icao"`
	Time     float64    `json:"time"`
	ECEF     [3]float64 `json:"ecef"`
	Altitude *float64   `json:"altitude"`
	Distinct int        `json:"distinct"`
	Dof      int        `json:"dof"`
}

// referenceRecord mirrors one history element of the extract output.
type referenceRecord struct {
	TS    int64 `json:"ts"`
	Entry struct {
		Lat      *float64 `json:"lat"`
		Lon      *float64 `json:"lon"`
		Alt      *float64 `json:"alt"`
		ADSBSeen float64  `json:"adsb_seen"`
	} `json:"entry"`
}

// LoadPseudoranges reads multilateration solutions from an NDJSON file
// (concatenated JSON objects are tolerated) and converts each ECEF
// coordinate to geodetic. Keys are lowercase ICAO identifiers.
func LoadPseudoranges(path string) (map[string][]MlatFix, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pseudorange file: %w", err)
	}
	defer file.Close()

	toLonLat := wgs84.XYZ().To(wgs84.LonLat())

	fixes := make(map[string][]MlatFix)
	decoder := json.NewDecoder(file)
	for decoder.More() {
		var rec pseudorangeRecord
		if err := decoder.Decode(&rec); err != nil {
			return nil, fmt.Errorf("parse pseudorange file %s: %w", path, err)
		}

		lon, lat, alt := toLonLat(rec.ECEF[0], rec.ECEF[1], rec.ECEF[2])
		icao := strings.ToLower(rec.ICAO)
		fixes[icao] = append(fixes[icao], MlatFix{
			Time:        rec.Time,
			Lat:         lat,
			Lon:         lon,
			Alt:         alt,
			ReportedAlt: rec.Altitude,
			Distinct:    rec.Distinct,
			Dof:         rec.Dof,
			ECEF:        rec.ECEF,
		})
	}
	return fixes, nil
}

// LoadReference reads ADS-B reference positions from an extract history
// file, keeping entries that carry a position and were seen via ADS-B.
// History timestamps are milliseconds and are converted to seconds.
func LoadReference(path string) (map[string][]ADSBFix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}

	var raw map[string][]referenceRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse reference file %s: %w", path, err)
	}

	fixes := make(map[string][]ADSBFix, len(raw))
	for icao, records := range raw {
		key := strings.ToLower(icao)
		for _, rec := range records {
			entry := rec.Entry
			if entry.Lat == nil || entry.Lon == nil || entry.ADSBSeen <= 0 {
				continue
			}
			fixes[key] = append(fixes[key], ADSBFix{
				Time: float64(rec.TS) / 1000.0,
				Lat:  *entry.Lat,
				Lon:  *entry.Lon,
				Alt:  entry.Alt,
			})
		}
	}
	return fixes, nil
}

// HorizontalDistance returns the great-circle distance in meters.
func HorizontalDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusM
}

// Sample is one matched MLAT/ADS-B pair with its error components.
type Sample struct {
	ICAO            string   `json:"icao"`
	Time            float64  `json:"time"`
	TimeDiff        float64  `json:"time_diff"`
	MlatLat         float64  `json:"mlat_lat"`
	MlatLon         float64  `json:"mlat_lon"`
	MlatAlt         float64  `json:"mlat_alt"`
	MlatReportedAlt *float64 `json:"mlat_reported_alt"` // feet
	ADSBLat         float64  `json:"adsb_lat"`
	ADSBLon         float64  `json:"adsb_lon"`
	ADSBAlt         *float64 `json:"adsb_alt"` // meters
	HorizontalError float64  `json:"horizontal_error"`
	VerticalError   *float64 `json:"vertical_error"`
	Error3D         float64  `json:"error_3d"`
	Distinct        int      `json:"distinct_receivers"`
	Dof             int      `json:"dof"`
}

// closestReference finds the ADS-B fix nearest in time to the given
// mlat fix, within the window (seconds). Returns nil when none matches.
func closestReference(mlat MlatFix, refs []ADSBFix, window float64) *ADSBFix {
	var closest *ADSBFix
	minDiff := math.Inf(1)
	for i := range refs {
		diff := math.Abs(refs[i].Time - mlat.Time)
		if diff < minDiff && diff <= window {
			minDiff = diff
			closest = &refs[i]
		}
	}
	return closest
}

// CalculateErrors matches every multilateration fix against its closest
// ADS-B reference and computes horizontal, vertical and 3-D errors.
func CalculateErrors(mlat map[string][]MlatFix, adsb map[string][]ADSBFix, window float64) []Sample {
	var samples []Sample
	for icao, fixes := range mlat {
		refs, ok := adsb[icao]
		if !ok {
			continue
		}

		for _, fix := range fixes {
			ref := closestReference(fix, refs, window)
			if ref == nil {
				continue
			}

			horizontal := HorizontalDistance(fix.Lat, fix.Lon, ref.Lat, ref.Lon)

			var vertical *float64
			var refAltM *float64
			if ref.Alt != nil {
				m := *ref.Alt * footM
				refAltM = &m
				v := math.Abs(fix.Alt - m)
				vertical = &v
			}

			error3D := horizontal
			if vertical != nil {
				error3D = math.Hypot(horizontal, *vertical)
			}

			samples = append(samples, Sample{
				ICAO:            icao,
				Time:            fix.Time,
				TimeDiff:        math.Abs(fix.Time - ref.Time),
				MlatLat:         fix.Lat,
				MlatLon:         fix.Lon,
				MlatAlt:         fix.Alt,
				MlatReportedAlt: fix.ReportedAlt,
				ADSBLat:         ref.Lat,
				ADSBLon:         ref.Lon,
				ADSBAlt:         refAltM,
				HorizontalError: horizontal,
				VerticalError:   vertical,
				Error3D:         error3D,
				Distinct:        fix.Distinct,
				Dof:             fix.Dof,
			})
		}
	}

	sort.Slice(samples, func(i, j int) bool {
		if samples[i].ICAO != samples[j].ICAO {
			return samples[i].ICAO < samples[j].ICAO
		}
		return samples[i].Time < samples[j].Time
	})
	return samples
}

// SaveDetailed writes the full sample list as indented JSON.
func SaveDetailed(samples []Sample, path string) error {
	data, err := json.MarshalIndent(samples, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize samples: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	return nil
}
