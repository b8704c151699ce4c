package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/climatiqq/climatiqq/internal/recommend"
)

var predictWorkers int

var predictCmd = &cobra.Command{
	Use:   "predict FILE...",
	Short: "Suggestions for user-data JSON files",
	Long: `Run the recommendation engine over one or more user-data documents of the
form {"entries": [{"carbon_footprint": 12, "water_usage": 150,
"energy_usage": 6, "created_at": "..."}]}. Use - to read from stdin.

Files are scored concurrently. A malformed document yields the fallback
result rather than an error; only unreadable files fail the command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().IntVar(&predictWorkers, "workers", 4, "Maximum files scored at once")
	rootCmd.AddCommand(predictCmd)
}

// filePrediction is the JSON-serializable output for one input file.
type filePrediction struct {
	File   string           `json:"file"`
	Result recommend.Result `json:"result"`
}

func runPredict(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	results, err := predictFiles(cmd.Context(), env.engine, args, predictWorkers, env.log)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(results)
	}
	for _, r := range results {
		renderResult(filepath.Base(r.File), r.Result)
	}
	return nil
}

// predictFiles scores every path with at most workers in flight. Results
// keep the order of paths.
func predictFiles(ctx context.Context, engine *recommend.Engine, paths []string, workers int, log zerolog.Logger) ([]filePrediction, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]filePrediction, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := readInput(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			res := engine.PredictJSON(raw)
			log.Debug().Str("file", path).Str("model", res.ModelType).Msg("scored")
			results[i] = filePrediction{File: path, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
