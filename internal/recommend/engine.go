package recommend

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	// ErrNoUserData is returned by the pipeline when Predict is given nil input.
	ErrNoUserData = errors.New("no user data")
	// ErrEmptySuggestion reports a formatted suggestion without a title or message.
	ErrEmptySuggestion = errors.New("empty suggestion")
)

// Engine runs feature extraction, the rules, and formatting over a user's
// entries. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	rules []Rule
	log   zerolog.Logger
}

// NewEngine creates an engine with the built-in rules registered.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		rules: DefaultRules(),
		log:   log.With().Str("component", "recommend").Logger(),
	}
}

// Predict returns suggestions for data. It always returns a well-formed
// Result; pipeline failures are reported through the fallback envelope.
func (e *Engine) Predict(data *UserData) Result {
	res, err := e.run(data)
	if err != nil {
		return e.fallback(err)
	}
	return res
}

// PredictJSON decodes a {"entries": [...]} document and predicts from it.
// Undecodable input yields the fallback Result.
func (e *Engine) PredictJSON(raw []byte) Result {
	data, err := DecodeUserData(raw)
	if err != nil {
		return e.fallback(err)
	}
	return e.Predict(data)
}

// DecodeUserData parses a user-data document.
func DecodeUserData(raw []byte) (*UserData, error) {
	var data UserData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding user data: %w", err)
	}
	return &data, nil
}

func (e *Engine) run(data *UserData) (Result, error) {
	if data == nil {
		return Result{}, ErrNoUserData
	}

	fv, err := extractFeatures(data.Entries)
	if err != nil {
		e.log.Warn().Err(err).Int("entries", len(data.Entries)).Msg("feature extraction degraded to zero vector")
		fv = FeatureVector{}
	}

	suggestions := Format(generate(e.rules, fv))
	if err := checkSuggestions(suggestions); err != nil {
		return Result{}, err
	}

	return Result{
		Suggestions: suggestions,
		Confidence:  ConfidenceRuleBased,
		ModelType:   ModelRuleBased,
		Features:    &fv,
	}, nil
}

// checkSuggestions rejects any suggestion missing its title or message.
func checkSuggestions(suggestions []Suggestion) error {
	for i, s := range suggestions {
		if s.Title == "" || s.Message == "" {
			return fmt.Errorf("suggestion %d (%s): %w", i, s.Key, ErrEmptySuggestion)
		}
	}
	return nil
}

func (e *Engine) fallback(err error) Result {
	e.log.Error().Err(err).Msg("prediction failed, returning fallback")
	return Fallback(err)
}

// Fallback builds the generic single-suggestion Result for err.
func Fallback(err error) Result {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result{
		Suggestions: []Suggestion{fallbackSuggestion},
		Confidence:  ConfidenceFallback,
		ModelType:   ModelFallback,
		Error:       msg,
	}
}
