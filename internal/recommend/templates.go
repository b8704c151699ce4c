package recommend

// Suggestion categories, one per rule group.
const (
	CategoryCarbon     = "carbon"
	CategoryWater      = "water"
	CategoryEnergy     = "energy"
	CategoryActivity   = "activity"
	CategoryEngagement = "engagement"
	CategoryGeneral    = "general"
)

// template is the static display data for one suggestion key.
type template struct {
	title    string
	message  string
	category string
	impact   string
	effort   string
}

var templates = map[SuggestionKey]template{
	KeyReduceCarUsage: {
		title:    "Reduce Car Usage",
		message:  "Consider walking, cycling, or public transport for short trips.",
		category: CategoryCarbon, impact: ImpactHigh, effort: EffortMedium,
	},
	KeyUsePublicTransport: {
		title:    "Use Public Transport",
		message:  "Switch to buses, trains, or trams for your daily commute.",
		category: CategoryCarbon, impact: ImpactHigh, effort: EffortEasy,
	},
	KeyEnergyEfficiency: {
		title:    "Improve Energy Efficiency",
		message:  "Upgrade to energy-efficient appliances and lighting.",
		category: CategoryCarbon, impact: ImpactMedium, effort: EffortMedium,
	},
	KeyOptimizeHeating: {
		title:    "Optimize Heating",
		message:  "Lower your thermostat and use smart heating controls.",
		category: CategoryCarbon, impact: ImpactMedium, effort: EffortEasy,
	},
	KeyReduceMeatConsumption: {
		title:    "Reduce Meat Consumption",
		message:  "Try meat-free Mondays or plant-based alternatives.",
		category: CategoryCarbon, impact: ImpactHigh, effort: EffortMedium,
	},
	KeyRenewableEnergy: {
		title:    "Switch to Renewable Energy",
		message:  "Consider solar panels or green energy providers.",
		category: CategoryCarbon, impact: ImpactHigh, effort: EffortHard,
	},
	KeyMaintainLowCarbon: {
		title:    "Maintain Low Carbon Lifestyle",
		message:  "Keep up your great work! Share your tips with others.",
		category: CategoryCarbon, impact: ImpactLow, effort: EffortEasy,
	},
	KeyShareTips: {
		title:    "Share Sustainability Tips",
		message:  "Help others by sharing your eco-friendly practices.",
		category: CategoryCarbon, impact: ImpactMedium, effort: EffortEasy,
	},
	KeyCommunityEngagement: {
		title:    "Join Community Initiatives",
		message:  "Participate in local environmental projects.",
		category: CategoryCarbon, impact: ImpactMedium, effort: EffortEasy,
	},
	KeyShorterShowers: {
		title:    "Take Shorter Showers",
		message:  "Reduce shower time to save water and energy.",
		category: CategoryWater, impact: ImpactMedium, effort: EffortEasy,
	},
	KeyFixLeaks: {
		title:    "Fix Water Leaks",
		message:  "Repair dripping taps and pipes to save water.",
		category: CategoryWater, impact: ImpactMedium, effort: EffortMedium,
	},
	KeyWaterEfficientAppliances: {
		title:    "Use Water-Efficient Appliances",
		message:  "Install low-flow showerheads and efficient washing machines.",
		category: CategoryWater, impact: ImpactMedium, effort: EffortMedium,
	},
	KeyLEDLighting: {
		title:    "Switch to LED Lighting",
		message:  "Replace traditional bulbs with energy-efficient LEDs.",
		category: CategoryEnergy, impact: ImpactMedium, effort: EffortEasy,
	},
	KeySmartThermostat: {
		title:    "Install Smart Thermostat",
		message:  "Use smart controls to optimize heating and cooling.",
		category: CategoryEnergy, impact: ImpactMedium, effort: EffortMedium,
	},
	KeyUnplugDevices: {
		title:    "Unplug Unused Devices",
		message:  "Reduce phantom energy consumption by unplugging electronics.",
		category: CategoryEnergy, impact: ImpactLow, effort: EffortEasy,
	},
	KeyChooseSustainableTransport: {
		title:    "Choose Sustainable Transport",
		message:  "Opt for walking, cycling, or electric vehicles.",
		category: CategoryActivity, impact: ImpactHigh, effort: EffortMedium,
	},
	KeyReduceHighImpact: {
		title:    "Reduce High-Impact Activities",
		message:  "Limit activities with high carbon footprints.",
		category: CategoryActivity, impact: ImpactHigh, effort: EffortMedium,
	},
	KeyOffsetCarbonEmissions: {
		title:    "Offset Carbon Emissions",
		message:  "Support carbon offset projects to balance your impact.",
		category: CategoryActivity, impact: ImpactHigh, effort: EffortEasy,
	},
	KeyTrackMoreActivities: {
		title:    "Track More Activities",
		message:  "Log your daily activities to better understand your impact.",
		category: CategoryEngagement, impact: ImpactLow, effort: EffortEasy,
	},
	KeySetSustainabilityGoals: {
		title:    "Set Sustainability Goals",
		message:  "Create specific targets for reducing your environmental impact.",
		category: CategoryEngagement, impact: ImpactMedium, effort: EffortEasy,
	},
	KeyJoinCommunityChallenges: {
		title:    "Join Community Challenges",
		message:  "Participate in group sustainability challenges.",
		category: CategoryEngagement, impact: ImpactMedium, effort: EffortEasy,
	},
}

// unknownKeySuggestion stands in for a key missing from the table.
var unknownKeySuggestion = Suggestion{
	Title:   "General Sustainability",
	Message: "Consider ways to reduce your environmental impact.",
	Impact:  ImpactMedium,
	Effort:  EffortEasy,
}

// fallbackSuggestion is the single suggestion returned on the fallback path.
var fallbackSuggestion = Suggestion{
	Title:    "General Sustainability",
	Message:  "Consider reducing your overall environmental impact through daily choices.",
	Category: CategoryGeneral,
	Impact:   ImpactMedium,
	Effort:   EffortEasy,
}

// Format expands keys into display-ready suggestions, one per key, in the
// same order. Unknown keys get a generic record.
func Format(keys []SuggestionKey) []Suggestion {
	out := make([]Suggestion, 0, len(keys))
	for _, k := range keys {
		t, ok := templates[k]
		if !ok {
			out = append(out, unknownKeySuggestion)
			continue
		}
		out = append(out, Suggestion{
			Key:      k,
			Title:    t.title,
			Message:  t.message,
			Category: t.category,
			Impact:   t.impact,
			Effort:   t.effort,
		})
	}
	return out
}

// KnownKeys returns every key in the template table.
func KnownKeys() []SuggestionKey {
	keys := make([]SuggestionKey, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	return keys
}
