package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climatiqq/climatiqq/internal/impact"
	"github.com/climatiqq/climatiqq/internal/recommend"
	"github.com/climatiqq/climatiqq/internal/store"
)

// useTempEnv points config and the sqlite store at a temp directory.
func useTempEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "climatiqq.db")
	t.Setenv("HOME", dir)
	t.Setenv("CLIMATIQQ_DATABASE_DSN", dsn)
	t.Setenv("CLIMATIQQ_LOG_LEVEL", "error")
	return dsn
}

func TestCommands_Registered(t *testing.T) {
	want := map[string]bool{"log": false, "stats": false, "suggest": false, "predict": false, "serve": false, "ingest": false, "mcp": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("%s subcommand not registered on rootCmd", name)
		}
	}
}

func TestRunLog_StoresEntry(t *testing.T) {
	dsn := useTempEnv(t)
	flagUser, logNote = "ana", "Car travel to work"
	t.Cleanup(func() { flagUser, logNote = "", "" })

	require.NoError(t, runLog(logCmd, []string{"carbon", "15.5"}))

	db, err := store.Open("sqlite", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	recs, err := db.ListEntries(store.EntryFilter{User: "ana"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, impact.MetricCarbon, recs[0].MetricType)
	assert.Equal(t, 15.5, recs[0].Value)
	assert.Equal(t, "Car travel to work", recs[0].Description)
}

func TestRunLog_Errors(t *testing.T) {
	useTempEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing value", []string{"carbon"}},
		{"not a number", []string{"carbon", "lots"}},
		{"unknown metric", []string{"plastic", "3"}},
		{"negative", []string{"water", "-3"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, runLog(logCmd, tc.args))
		})
	}
}

func TestRunLog_DeleteMissing(t *testing.T) {
	useTempEnv(t)
	logDelete = 99
	t.Cleanup(func() { logDelete = 0 })

	err := runLog(logCmd, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPredictFiles_KeepsOrder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"high.json":   `{"entries":[{"carbon_footprint":25}]}`,
		"broken.json": `{"entries":[{"carbon_footprint":"abc"}]}`,
		"empty.json":  `{"entries":[]}`,
	}
	var paths []string
	for _, name := range []string{"high.json", "broken.json", "empty.json"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(files[name]), 0o644))
		paths = append(paths, p)
	}

	engine := recommend.NewEngine(zerolog.Nop())
	results, err := predictFiles(context.Background(), engine, paths, 2, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, p := range paths {
		assert.Equal(t, p, results[i].File)
	}
	assert.Equal(t, recommend.KeyReduceCarUsage, results[0].Result.Suggestions[0].Key)
	assert.Equal(t, recommend.ModelFallback, results[1].Result.ModelType)
	assert.Equal(t, recommend.ModelRuleBased, results[2].Result.ModelType)
}

func TestPredictFiles_MissingFile(t *testing.T) {
	engine := recommend.NewEngine(zerolog.Nop())
	_, err := predictFiles(context.Background(), engine, []string{filepath.Join(t.TempDir(), "nope.json")}, 0, zerolog.Nop())
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v    float64
		m    impact.MetricType
		want string
	}{
		{15, impact.MetricCarbon, "15 kg CO2"},
		{15.5, impact.MetricCarbon, "15.50 kg CO2"},
		{120, impact.MetricWater, "120 L"},
		{0.25, impact.MetricEnergy, "0.25 kWh"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, formatValue(tc.v, tc.m))
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "abcd…", truncateText("abcdefgh", 5))
}
