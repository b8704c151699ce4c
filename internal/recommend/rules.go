package recommend

// Suggestion keys produced by the built-in rules.
const (
	KeyReduceCarUsage             SuggestionKey = "reduce_car_usage"
	KeyUsePublicTransport         SuggestionKey = "use_public_transport"
	KeyEnergyEfficiency           SuggestionKey = "energy_efficiency"
	KeyOptimizeHeating            SuggestionKey = "optimize_heating"
	KeyReduceMeatConsumption      SuggestionKey = "reduce_meat_consumption"
	KeyRenewableEnergy            SuggestionKey = "renewable_energy"
	KeyMaintainLowCarbon          SuggestionKey = "maintain_low_carbon"
	KeyShareTips                  SuggestionKey = "share_tips"
	KeyCommunityEngagement        SuggestionKey = "community_engagement"
	KeyShorterShowers             SuggestionKey = "shorter_showers"
	KeyFixLeaks                   SuggestionKey = "fix_leaks"
	KeyWaterEfficientAppliances   SuggestionKey = "water_efficient_appliances"
	KeyLEDLighting                SuggestionKey = "led_lighting"
	KeySmartThermostat            SuggestionKey = "smart_thermostat"
	KeyUnplugDevices              SuggestionKey = "unplug_devices"
	KeyChooseSustainableTransport SuggestionKey = "choose_sustainable_transport"
	KeyReduceHighImpact           SuggestionKey = "reduce_high_impact_activities"
	KeyOffsetCarbonEmissions      SuggestionKey = "offset_carbon_emissions"
	KeyTrackMoreActivities        SuggestionKey = "track_more_activities"
	KeySetSustainabilityGoals     SuggestionKey = "set_sustainability_goals"
	KeyJoinCommunityChallenges    SuggestionKey = "join_community_challenges"
)

// Rule thresholds. Comparisons are strict.
const (
	HighCarbonThreshold   = 20.0
	MediumCarbonThreshold = 10.0
	HighWaterThreshold    = 200.0
	HighEnergyThreshold   = 10.0
	NewUserEntryThreshold = 10
)

// Rule examines a feature vector and produces zero or more suggestion keys.
type Rule func(fv FeatureVector) []SuggestionKey

// DefaultRules returns the built-in rule groups in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		CarbonTier,
		HighWaterUsage,
		HighEnergyUsage,
		ImpactDistribution,
		Engagement,
	}
}

// CarbonTier places the user in exactly one of three carbon bands.
func CarbonTier(fv FeatureVector) []SuggestionKey {
	switch {
	case fv.AvgCarbonPerDay > HighCarbonThreshold:
		return []SuggestionKey{KeyReduceCarUsage, KeyUsePublicTransport, KeyEnergyEfficiency}
	case fv.AvgCarbonPerDay > MediumCarbonThreshold:
		return []SuggestionKey{KeyOptimizeHeating, KeyReduceMeatConsumption, KeyRenewableEnergy}
	default:
		return []SuggestionKey{KeyMaintainLowCarbon, KeyShareTips, KeyCommunityEngagement}
	}
}

// HighWaterUsage fires for an average above 200 liters.
func HighWaterUsage(fv FeatureVector) []SuggestionKey {
	if fv.AvgWaterPerDay > HighWaterThreshold {
		return []SuggestionKey{KeyShorterShowers, KeyFixLeaks, KeyWaterEfficientAppliances}
	}
	return nil
}

// HighEnergyUsage fires for an average above 10 kWh.
func HighEnergyUsage(fv FeatureVector) []SuggestionKey {
	if fv.AvgEnergyPerDay > HighEnergyThreshold {
		return []SuggestionKey{KeyLEDLighting, KeySmartThermostat, KeyUnplugDevices}
	}
	return nil
}

// ImpactDistribution fires when high-impact entries outnumber low-impact ones.
func ImpactDistribution(fv FeatureVector) []SuggestionKey {
	if fv.HighImpactActivities > fv.LowImpactActivities {
		return []SuggestionKey{KeyChooseSustainableTransport, KeyReduceHighImpact, KeyOffsetCarbonEmissions}
	}
	return nil
}

// Engagement nudges users with fewer than 10 entries toward regular tracking.
func Engagement(fv FeatureVector) []SuggestionKey {
	if fv.TotalEntries < NewUserEntryThreshold {
		return []SuggestionKey{KeyTrackMoreActivities, KeySetSustainabilityGoals, KeyJoinCommunityChallenges}
	}
	return nil
}

// Generate evaluates the built-in rules against fv and returns at most
// MaxSuggestions unique keys.
func Generate(fv FeatureVector) []SuggestionKey {
	return generate(DefaultRules(), fv)
}

func generate(rules []Rule, fv FeatureVector) []SuggestionKey {
	var all []SuggestionKey
	for _, rule := range rules {
		all = append(all, rule(fv)...)
	}
	return truncate(dedupe(all), MaxSuggestions)
}

// dedupe removes repeated keys, keeping first-occurrence order.
func dedupe(keys []SuggestionKey) []SuggestionKey {
	seen := make(map[SuggestionKey]bool, len(keys))
	out := make([]SuggestionKey, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func truncate(keys []SuggestionKey, n int) []SuggestionKey {
	if len(keys) > n {
		return keys[:n]
	}
	return keys
}
