package recommend

import (
	"reflect"
	"testing"
)

func TestCarbonTier(t *testing.T) {
	tests := []struct {
		name   string
		carbon float64
		want   []SuggestionKey
	}{
		{"zero is low tier", 0, []SuggestionKey{KeyMaintainLowCarbon, KeyShareTips, KeyCommunityEngagement}},
		{"exactly 10 is low tier", 10, []SuggestionKey{KeyMaintainLowCarbon, KeyShareTips, KeyCommunityEngagement}},
		{"just above 10 is medium tier", 10.5, []SuggestionKey{KeyOptimizeHeating, KeyReduceMeatConsumption, KeyRenewableEnergy}},
		{"exactly 20 is medium tier", 20, []SuggestionKey{KeyOptimizeHeating, KeyReduceMeatConsumption, KeyRenewableEnergy}},
		{"above 20 is high tier", 20.01, []SuggestionKey{KeyReduceCarUsage, KeyUsePublicTransport, KeyEnergyEfficiency}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CarbonTier(FeatureVector{AvgCarbonPerDay: tc.carbon})
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("CarbonTier(%v) = %v, want %v", tc.carbon, got, tc.want)
			}
		})
	}
}

func TestHighWaterUsage(t *testing.T) {
	if got := HighWaterUsage(FeatureVector{AvgWaterPerDay: 200}); got != nil {
		t.Errorf("expected no keys at exactly 200, got %v", got)
	}
	got := HighWaterUsage(FeatureVector{AvgWaterPerDay: 200.1})
	want := []SuggestionKey{KeyShorterShowers, KeyFixLeaks, KeyWaterEfficientAppliances}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HighWaterUsage = %v, want %v", got, want)
	}
}

func TestHighEnergyUsage(t *testing.T) {
	if got := HighEnergyUsage(FeatureVector{AvgEnergyPerDay: 10}); got != nil {
		t.Errorf("expected no keys at exactly 10, got %v", got)
	}
	got := HighEnergyUsage(FeatureVector{AvgEnergyPerDay: 11})
	want := []SuggestionKey{KeyLEDLighting, KeySmartThermostat, KeyUnplugDevices}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HighEnergyUsage = %v, want %v", got, want)
	}
}

func TestImpactDistribution(t *testing.T) {
	tests := []struct {
		name      string
		high, low int
		fires     bool
	}{
		{"more high", 2, 1, true},
		{"equal", 1, 1, false},
		{"more low", 0, 3, false},
		{"both zero", 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ImpactDistribution(FeatureVector{HighImpactActivities: tc.high, LowImpactActivities: tc.low})
			if (len(got) > 0) != tc.fires {
				t.Errorf("ImpactDistribution(high=%d, low=%d) = %v, fires want %v", tc.high, tc.low, got, tc.fires)
			}
		})
	}
}

func TestEngagement(t *testing.T) {
	if got := Engagement(FeatureVector{TotalEntries: 9}); len(got) != 3 {
		t.Errorf("expected 3 keys for 9 entries, got %v", got)
	}
	if got := Engagement(FeatureVector{TotalEntries: 10}); got != nil {
		t.Errorf("expected no keys for 10 entries, got %v", got)
	}
}

func TestGenerate_EmptyFeatures(t *testing.T) {
	got := Generate(FeatureVector{})
	want := []SuggestionKey{
		KeyMaintainLowCarbon, KeyShareTips, KeyCommunityEngagement,
		KeyTrackMoreActivities, KeySetSustainabilityGoals,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate(zero) = %v, want %v", got, want)
	}
}

func TestGenerate_TruncatesToFive(t *testing.T) {
	fv := FeatureVector{
		AvgCarbonPerDay:      25,
		AvgWaterPerDay:       300,
		AvgEnergyPerDay:      20,
		TotalEntries:         1,
		HighImpactActivities: 1,
	}
	got := Generate(fv)
	if len(got) != MaxSuggestions {
		t.Fatalf("expected %d keys, got %d: %v", MaxSuggestions, len(got), got)
	}
	want := []SuggestionKey{
		KeyReduceCarUsage, KeyUsePublicTransport, KeyEnergyEfficiency,
		KeyShorterShowers, KeyFixLeaks,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate = %v, want %v", got, want)
	}
}

func TestGenerate_KeepsAllWhenFewerThanFive(t *testing.T) {
	fv := FeatureVector{AvgCarbonPerDay: 3, TotalEntries: 50, LowImpactActivities: 50}
	got := Generate(fv)
	if len(got) != 3 {
		t.Errorf("expected only the carbon tier keys, got %v", got)
	}
}

func TestDedupe_FirstOccurrenceOrder(t *testing.T) {
	in := []SuggestionKey{"b", "a", "b", "c", "a"}
	got := dedupe(in)
	want := []SuggestionKey{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupe(%v) = %v, want %v", in, got, want)
	}
}

func TestGenerate_DuplicateRulesDeduped(t *testing.T) {
	rules := []Rule{CarbonTier, CarbonTier, Engagement}
	got := generate(rules, FeatureVector{})
	seen := make(map[SuggestionKey]bool)
	for _, k := range got {
		if seen[k] {
			t.Errorf("duplicate key %s in %v", k, got)
		}
		seen[k] = true
	}
	if len(got) != MaxSuggestions {
		t.Errorf("expected %d keys, got %d", MaxSuggestions, len(got))
	}
}

func TestGenerate_AllKeysHaveTemplates(t *testing.T) {
	fvs := []FeatureVector{
		{},
		{AvgCarbonPerDay: 15, AvgWaterPerDay: 500, AvgEnergyPerDay: 50},
		{AvgCarbonPerDay: 30, HighImpactActivities: 5, TotalEntries: 5},
	}
	for _, fv := range fvs {
		for _, k := range Generate(fv) {
			if _, ok := templates[k]; !ok {
				t.Errorf("key %s produced by rules has no template", k)
			}
		}
	}
}
