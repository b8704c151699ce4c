package recommend

import (
	"errors"
	"fmt"
	"math"
)

// Feature extraction constants.
const (
	// assumedDaysActive stands in for the observed activity window whenever
	// at least one entry exists. Timestamps are not consulted.
	assumedDaysActive = 30

	highImpactCarbon = 10.0
	lowImpactCarbon  = 5.0
)

// errNonFinite reports an average computed from a NaN or infinite input.
var errNonFinite = errors.New("non-finite aggregate")

// Extract reduces entries to a FeatureVector. It never fails: when the
// aggregates cannot be computed the zero vector is returned, the same one
// used for empty input.
func Extract(entries []ImpactEntry) FeatureVector {
	fv, err := extractFeatures(entries)
	if err != nil {
		return FeatureVector{}
	}
	return fv
}

// extractFeatures computes the feature vector and reports why it could not,
// so the engine can log the degradation.
func extractFeatures(entries []ImpactEntry) (FeatureVector, error) {
	total := len(entries)
	if total == 0 {
		return FeatureVector{}, nil
	}

	// Running means stay finite for any finite input, where a plain sum
	// of large values would overflow.
	var carbon, water, energy float64
	var high, low int
	for i, e := range entries {
		k := float64(i + 1)
		c := float64(e.CarbonFootprint)
		carbon += (c - carbon) / k
		water += (float64(e.WaterUsage) - water) / k
		energy += (float64(e.EnergyUsage) - energy) / k

		if c > highImpactCarbon {
			high++
		}
		if c <= lowImpactCarbon {
			low++
		}
	}

	n := float64(total)
	fv := FeatureVector{
		AvgCarbonPerDay:      carbon,
		AvgWaterPerDay:       water,
		AvgEnergyPerDay:      energy,
		TotalEntries:         total,
		DaysActive:           assumedDaysActive,
		CarbonTrend:          0,
		HighImpactActivities: high,
		LowImpactActivities:  low,
	}
	fv.ActivityFrequency = n / float64(max(fv.DaysActive, 1))

	averages := []struct {
		name  string
		value float64
	}{
		{"avg_carbon_per_day", fv.AvgCarbonPerDay},
		{"avg_water_per_day", fv.AvgWaterPerDay},
		{"avg_energy_per_day", fv.AvgEnergyPerDay},
	}
	for _, a := range averages {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return FeatureVector{}, fmt.Errorf("%s: %w", a.name, errNonFinite)
		}
	}
	return fv, nil
}
