package recommend

import (
	"errors"
	"math"
	"testing"
)

func TestExtract_Empty(t *testing.T) {
	fv := Extract(nil)
	if fv != (FeatureVector{}) {
		t.Errorf("expected zero vector for empty input, got %+v", fv)
	}
}

func TestExtract_Averages(t *testing.T) {
	entries := []ImpactEntry{
		{CarbonFootprint: 15.5, WaterUsage: 180, EnergyUsage: 12.3},
		{CarbonFootprint: 8.2, WaterUsage: 120, EnergyUsage: 6.7},
		{CarbonFootprint: 22.1, WaterUsage: 250, EnergyUsage: 15.8},
	}
	fv := Extract(entries)

	if fv.TotalEntries != 3 {
		t.Errorf("TotalEntries = %d, want 3", fv.TotalEntries)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"avg carbon", fv.AvgCarbonPerDay, (15.5 + 8.2 + 22.1) / 3},
		{"avg water", fv.AvgWaterPerDay, (180.0 + 120 + 250) / 3},
		{"avg energy", fv.AvgEnergyPerDay, (12.3 + 6.7 + 15.8) / 3},
		{"activity frequency", fv.ActivityFrequency, 3.0 / 30},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %f, want %f", c.name, c.got, c.want)
		}
	}
	if fv.DaysActive != 30 {
		t.Errorf("DaysActive = %d, want 30", fv.DaysActive)
	}
	if fv.CarbonTrend != 0 {
		t.Errorf("CarbonTrend = %f, want 0", fv.CarbonTrend)
	}
	// 15.5 and 22.1 are above 10; none is at or below 5.
	if fv.HighImpactActivities != 2 {
		t.Errorf("HighImpactActivities = %d, want 2", fv.HighImpactActivities)
	}
	if fv.LowImpactActivities != 0 {
		t.Errorf("LowImpactActivities = %d, want 0", fv.LowImpactActivities)
	}
}

func TestExtract_ImpactBoundaries(t *testing.T) {
	entries := []ImpactEntry{
		{CarbonFootprint: 10}, // neither high nor low
		{CarbonFootprint: 10.01},
		{CarbonFootprint: 5}, // low, inclusive
		{CarbonFootprint: 5.01},
		{}, // missing carbon counts as zero, so low
	}
	fv := Extract(entries)
	if fv.HighImpactActivities != 1 {
		t.Errorf("HighImpactActivities = %d, want 1", fv.HighImpactActivities)
	}
	if fv.LowImpactActivities != 2 {
		t.Errorf("LowImpactActivities = %d, want 2", fv.LowImpactActivities)
	}
}

func TestExtract_DaysActiveIgnoresTimestamps(t *testing.T) {
	entries := []ImpactEntry{
		{CarbonFootprint: 1, CreatedAt: "2024-01-01T00:00:00Z"},
		{CarbonFootprint: 1, CreatedAt: "not a timestamp"},
	}
	fv := Extract(entries)
	if fv.DaysActive != 30 {
		t.Errorf("DaysActive = %d, want 30", fv.DaysActive)
	}
}

func TestExtract_NonFiniteDegradesToZero(t *testing.T) {
	tests := []struct {
		name  string
		entry ImpactEntry
	}{
		{"NaN carbon", ImpactEntry{CarbonFootprint: Quantity(math.NaN())}},
		{"Inf water", ImpactEntry{WaterUsage: Quantity(math.Inf(1))}},
		{"-Inf energy", ImpactEntry{EnergyUsage: Quantity(math.Inf(-1))}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fv := Extract([]ImpactEntry{tc.entry})
			if fv != (FeatureVector{}) {
				t.Errorf("expected zero vector, got %+v", fv)
			}
			_, err := extractFeatures([]ImpactEntry{tc.entry})
			if !errors.Is(err, errNonFinite) {
				t.Errorf("expected errNonFinite, got %v", err)
			}
		})
	}
}

func TestExtract_LargeValuesStayHighImpact(t *testing.T) {
	entries := []ImpactEntry{
		{CarbonFootprint: 1e308},
		{CarbonFootprint: 1e308},
	}
	fv, err := extractFeatures(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fv.AvgCarbonPerDay != 1e308 {
		t.Errorf("AvgCarbonPerDay = %g, want 1e308", fv.AvgCarbonPerDay)
	}
	if fv.HighImpactActivities != 2 {
		t.Errorf("HighImpactActivities = %d, want 2", fv.HighImpactActivities)
	}
}
