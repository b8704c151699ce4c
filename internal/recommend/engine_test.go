package recommend

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEngine() *Engine {
	return NewEngine(zerolog.Nop())
}

func keySet(keys []SuggestionKey) map[SuggestionKey]bool {
	set := make(map[SuggestionKey]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// --- Engine.Predict ---

func TestPredict_EmptyEntries(t *testing.T) {
	res := newTestEngine().Predict(&UserData{})

	if res.ModelType != ModelRuleBased {
		t.Errorf("ModelType = %q, want %q", res.ModelType, ModelRuleBased)
	}
	if res.Confidence != 0.85 {
		t.Errorf("Confidence = %v, want 0.85", res.Confidence)
	}
	if len(res.Suggestions) == 0 {
		t.Fatal("expected suggestions for empty entries")
	}
	if res.Features == nil || *res.Features != (FeatureVector{}) {
		t.Errorf("expected zero features_analyzed, got %+v", res.Features)
	}
	if res.Error != "" {
		t.Errorf("unexpected error field %q", res.Error)
	}

	keys := keySet(res.Keys())
	for _, k := range []SuggestionKey{KeyMaintainLowCarbon, KeyTrackMoreActivities, KeySetSustainabilityGoals} {
		if !keys[k] {
			t.Errorf("expected %s in %v", k, res.Keys())
		}
	}
}

func TestPredict_HighCarbonSingleEntry(t *testing.T) {
	res := newTestEngine().Predict(&UserData{Entries: []ImpactEntry{{CarbonFootprint: 25}}})

	if res.Features.HighImpactActivities != 1 || res.Features.LowImpactActivities != 0 {
		t.Errorf("unexpected impact counts: %+v", res.Features)
	}
	if len(res.Suggestions) != MaxSuggestions {
		t.Fatalf("expected %d suggestions, got %d", MaxSuggestions, len(res.Suggestions))
	}
	keys := keySet(res.Keys())
	for _, k := range []SuggestionKey{KeyReduceCarUsage, KeyUsePublicTransport, KeyEnergyEfficiency} {
		if !keys[k] {
			t.Errorf("expected tier-1 key %s in %v", k, res.Keys())
		}
	}
	if keys[KeyMaintainLowCarbon] || keys[KeyOptimizeHeating] {
		t.Errorf("unexpected tier keys in %v", res.Keys())
	}
}

func TestPredict_LowCarbonTwoEntries(t *testing.T) {
	res := newTestEngine().Predict(&UserData{Entries: []ImpactEntry{
		{CarbonFootprint: 3},
		{CarbonFootprint: 4},
	}})

	if res.Features.AvgCarbonPerDay != 3.5 {
		t.Errorf("AvgCarbonPerDay = %v, want 3.5", res.Features.AvgCarbonPerDay)
	}
	if res.Features.LowImpactActivities != 2 {
		t.Errorf("LowImpactActivities = %d, want 2", res.Features.LowImpactActivities)
	}
	keys := keySet(res.Keys())
	if keys[KeyChooseSustainableTransport] {
		t.Error("impact distribution rule should not fire")
	}
	want := []SuggestionKey{
		KeyMaintainLowCarbon, KeyShareTips, KeyCommunityEngagement,
		KeyTrackMoreActivities, KeySetSustainabilityGoals,
	}
	if !reflect.DeepEqual(res.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", res.Keys(), want)
	}
}

func TestPredict_CarbonExactlyTwentyIsMediumTier(t *testing.T) {
	res := newTestEngine().Predict(&UserData{Entries: []ImpactEntry{
		{CarbonFootprint: 15},
		{CarbonFootprint: 25},
	}})
	if res.Features.AvgCarbonPerDay != 20 {
		t.Fatalf("AvgCarbonPerDay = %v, want 20", res.Features.AvgCarbonPerDay)
	}
	keys := keySet(res.Keys())
	if !keys[KeyOptimizeHeating] {
		t.Errorf("expected medium tier, got %v", res.Keys())
	}
	if keys[KeyReduceCarUsage] {
		t.Errorf("high tier fired at exactly 20: %v", res.Keys())
	}
}

func TestPredict_HugeCarbonIsHighTier(t *testing.T) {
	res := newTestEngine().PredictJSON([]byte(`{"entries":[{"carbon_footprint":1e308},{"carbon_footprint":1e308}]}`))

	if res.ModelType != ModelRuleBased {
		t.Fatalf("ModelType = %q, want %q", res.ModelType, ModelRuleBased)
	}
	if res.Features.HighImpactActivities != 2 {
		t.Errorf("HighImpactActivities = %d, want 2", res.Features.HighImpactActivities)
	}
	keys := keySet(res.Keys())
	if !keys[KeyReduceCarUsage] || keys[KeyMaintainLowCarbon] {
		t.Errorf("expected tier-1 keys, got %v", res.Keys())
	}
}

func TestPredict_NilUserData(t *testing.T) {
	res := newTestEngine().Predict(nil)
	if res.ModelType != ModelFallback {
		t.Errorf("ModelType = %q, want fallback", res.ModelType)
	}
	if res.Error != ErrNoUserData.Error() {
		t.Errorf("Error = %q, want %q", res.Error, ErrNoUserData.Error())
	}
}

func TestPredict_NonFiniteInputStillRuleBased(t *testing.T) {
	res := newTestEngine().Predict(&UserData{Entries: []ImpactEntry{
		{CarbonFootprint: Quantity(math.NaN())},
	}})
	if res.ModelType != ModelRuleBased {
		t.Errorf("ModelType = %q, want rule_based", res.ModelType)
	}
	if *res.Features != (FeatureVector{}) {
		t.Errorf("expected degraded zero features, got %+v", res.Features)
	}
}

func TestPredict_Idempotent(t *testing.T) {
	e := newTestEngine()
	data := &UserData{Entries: []ImpactEntry{
		{CarbonFootprint: 12, WaterUsage: 210, EnergyUsage: 4},
		{CarbonFootprint: 18, WaterUsage: 260, EnergyUsage: 16},
	}}
	a := e.Predict(data)
	b := e.Predict(data)
	if !reflect.DeepEqual(a.Features, b.Features) {
		t.Errorf("features differ: %+v vs %+v", a.Features, b.Features)
	}
	ka, kb := a.Keys(), b.Keys()
	sort.Slice(ka, func(i, j int) bool { return ka[i] < ka[j] })
	sort.Slice(kb, func(i, j int) bool { return kb[i] < kb[j] })
	if !reflect.DeepEqual(ka, kb) {
		t.Errorf("keys differ: %v vs %v", ka, kb)
	}
}

func TestPredict_BoundedAndFromTable(t *testing.T) {
	e := newTestEngine()
	inputs := [][]ImpactEntry{
		nil,
		{{CarbonFootprint: 50, WaterUsage: 1000, EnergyUsage: 100}},
		{{CarbonFootprint: 11}, {CarbonFootprint: 0}, {WaterUsage: 500}},
	}
	titles := make(map[string]bool)
	for _, tmpl := range templates {
		titles[tmpl.title] = true
	}
	for _, entries := range inputs {
		res := e.Predict(&UserData{Entries: entries})
		if len(res.Suggestions) > MaxSuggestions {
			t.Errorf("got %d suggestions, max %d", len(res.Suggestions), MaxSuggestions)
		}
		for _, s := range res.Suggestions {
			if s.Title == "" || s.Message == "" {
				t.Errorf("empty title or message: %+v", s)
			}
			if !titles[s.Title] {
				t.Errorf("title %q not in template table", s.Title)
			}
		}
	}
}

func TestPredict_ConcurrentCallers(t *testing.T) {
	e := newTestEngine()
	data := &UserData{Entries: []ImpactEntry{{CarbonFootprint: 25, WaterUsage: 300}}}
	want := e.Predict(data)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Predict(data)
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("result %d differs from sequential result", i)
		}
	}
}

func TestEngine_CustomRules(t *testing.T) {
	custom := func(fv FeatureVector) []SuggestionKey {
		return []SuggestionKey{"unknown_key", KeyFixLeaks}
	}
	e := &Engine{rules: []Rule{custom}, log: zerolog.Nop()}
	res := e.Predict(&UserData{})
	if len(res.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(res.Suggestions))
	}
	if res.Suggestions[0].Title != "General Sustainability" {
		t.Errorf("expected generic record for unknown key, got %+v", res.Suggestions[0])
	}
	if res.Suggestions[1].Key != KeyFixLeaks {
		t.Errorf("expected fix_leaks second, got %+v", res.Suggestions[1])
	}
}

func TestEngine_NoRules(t *testing.T) {
	e := &Engine{log: zerolog.Nop()}
	res := e.Predict(&UserData{})
	if len(res.Suggestions) != 0 {
		t.Errorf("expected no suggestions from engine with no rules, got %d", len(res.Suggestions))
	}
	if res.ModelType != ModelRuleBased {
		t.Errorf("ModelType = %q, want rule_based", res.ModelType)
	}
}

// --- Engine.PredictJSON ---

func TestPredictJSON_MissingFieldsDefaultToZero(t *testing.T) {
	raw := []byte(`{"entries":[{"carbon_footprint":25},{"water_usage":"300"},{"created_at":"2024-01-15T10:00:00Z"}]}`)
	res := newTestEngine().PredictJSON(raw)
	if res.ModelType != ModelRuleBased {
		t.Fatalf("ModelType = %q (error %q), want rule_based", res.ModelType, res.Error)
	}
	if res.Features.TotalEntries != 3 {
		t.Errorf("TotalEntries = %d, want 3", res.Features.TotalEntries)
	}
	if math.Abs(res.Features.AvgWaterPerDay-100) > 1e-9 {
		t.Errorf("AvgWaterPerDay = %v, want 100", res.Features.AvgWaterPerDay)
	}
}

func TestPredictJSON_MissingEntriesKey(t *testing.T) {
	res := newTestEngine().PredictJSON([]byte(`{}`))
	if res.ModelType != ModelRuleBased {
		t.Errorf("ModelType = %q, want rule_based", res.ModelType)
	}
	if res.Features.TotalEntries != 0 {
		t.Errorf("TotalEntries = %d, want 0", res.Features.TotalEntries)
	}
}

func TestPredictJSON_NonNumericCarbonFallsBack(t *testing.T) {
	raw := []byte(`{"entries":[{"carbon_footprint":"lots"}]}`)
	res := newTestEngine().PredictJSON(raw)

	if res.ModelType != ModelFallback {
		t.Fatalf("ModelType = %q, want fallback", res.ModelType)
	}
	if res.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want 0.5", res.Confidence)
	}
	if len(res.Suggestions) != 1 || res.Suggestions[0].Title != "General Sustainability" {
		t.Errorf("unexpected fallback suggestions: %+v", res.Suggestions)
	}
	if res.Suggestions[0].Category != CategoryGeneral {
		t.Errorf("Category = %q, want general", res.Suggestions[0].Category)
	}
	if res.Features != nil {
		t.Error("features_analyzed must be absent on fallback")
	}
	if res.Error == "" {
		t.Error("expected error message on fallback")
	}
}

func TestPredictJSON_Malformed(t *testing.T) {
	res := newTestEngine().PredictJSON([]byte(`{"entries": [`))
	if res.ModelType != ModelFallback {
		t.Errorf("ModelType = %q, want fallback", res.ModelType)
	}
}

func TestCheckSuggestions(t *testing.T) {
	if err := checkSuggestions(Format(KnownKeys())); err != nil {
		t.Errorf("template table: unexpected error %v", err)
	}
	if err := checkSuggestions(Format([]SuggestionKey{"no_such_key"})); err != nil {
		t.Errorf("unknown key: unexpected error %v", err)
	}

	bad := []Suggestion{
		{Key: KeyShareTips, Title: "Share Tips", Message: "ok"},
		{Key: KeyShareTips, Title: "", Message: "no title"},
	}
	if err := checkSuggestions(bad); !errors.Is(err, ErrEmptySuggestion) {
		t.Errorf("expected ErrEmptySuggestion, got %v", err)
	}
	if err := checkSuggestions([]Suggestion{{Title: "t"}}); !errors.Is(err, ErrEmptySuggestion) {
		t.Errorf("expected ErrEmptySuggestion for empty message, got %v", err)
	}
}

func TestFallback_JSONShape(t *testing.T) {
	data, err := json.Marshal(Fallback(errors.New("boom")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m struct {
		Suggestions []map[string]any `json:"suggestions"`
		Confidence  float64          `json:"confidence"`
		ModelType   string           `json:"model_type"`
		Error       string           `json:"error"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(m.Suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %s", data)
	}
	want := map[string]any{
		"title":    "General Sustainability",
		"message":  "Consider reducing your overall environmental impact through daily choices.",
		"category": "general",
		"impact":   "medium",
		"effort":   "easy",
	}
	if !reflect.DeepEqual(m.Suggestions[0], want) {
		t.Errorf("fallback suggestion = %v, want %v", m.Suggestions[0], want)
	}
	if m.Confidence != 0.5 || m.ModelType != "fallback" || m.Error != "boom" {
		t.Errorf("unexpected envelope: %s", data)
	}
}

func TestFallback_NilError(t *testing.T) {
	res := Fallback(nil)
	if res.Error == "" {
		t.Error("expected non-empty error message")
	}
}

func TestResult_JSONShape(t *testing.T) {
	res := newTestEngine().Predict(&UserData{})
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, k := range []string{"suggestions", "confidence", "model_type", "features_analyzed"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing key %q in %s", k, data)
		}
	}
	if _, ok := m["error"]; ok {
		t.Error("error key must be omitted on success")
	}
	features := m["features_analyzed"].(map[string]any)
	if _, ok := features["low_impact_activities"]; !ok {
		t.Errorf("features_analyzed missing low_impact_activities: %v", features)
	}
}

// --- Quantity ---

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{`12.5`, 12.5, false},
		{`"7"`, 7, false},
		{`" 3.25 "`, 3.25, false},
		{`null`, 0, false},
		{`""`, 0, false},
		{`"abc"`, 0, true},
		{`true`, 0, true},
		{`{}`, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var q Quantity
			err := json.Unmarshal([]byte(tc.in), &q)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && float64(q) != tc.want {
				t.Errorf("got %v, want %v", q, tc.want)
			}
		})
	}
}

func TestDecodeUserData_WrapsError(t *testing.T) {
	_, err := DecodeUserData([]byte(`nope`))
	if err == nil {
		t.Fatal("expected error")
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("expected wrapped *json.SyntaxError, got %T", errors.Unwrap(err))
	}
}
