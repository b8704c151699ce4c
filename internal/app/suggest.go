package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/climatiqq/climatiqq/internal/impact"
	"github.com/climatiqq/climatiqq/internal/output"
	"github.com/climatiqq/climatiqq/internal/recommend"
	"github.com/climatiqq/climatiqq/internal/store"
)

var (
	suggestLimit   int
	suggestSave    bool
	suggestHistory int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggestions from your stored entries",
	Long: `Run the recommendation engine over the current user's stored entries and
print up to five suggestions with their impact and effort.

Results are saved to the prediction history when suggest.save_history is
enabled or --save is given. Use --history N to show the last N saved results
instead of computing a new one.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 0, "Maximum number of suggestions to show (default: all)")
	suggestCmd.Flags().BoolVar(&suggestSave, "save", false, "Save the result to the prediction history")
	suggestCmd.Flags().IntVar(&suggestHistory, "history", 0, "Show the last N saved results")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	user := env.user()
	if suggestHistory > 0 {
		return runSuggestHistory(env, user)
	}

	records, err := env.db.ListEntries(store.EntryFilter{User: user, Limit: env.cfg.Suggest.MaxEntries})
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}
	env.log.Debug().Str("user", user).Int("entries", len(records)).Msg("running engine")

	res := env.engine.Predict(impact.ToUserData(records))

	if suggestSave || env.cfg.Suggest.SaveHistory {
		id, err := env.db.InsertPrediction(user, res, time.Now())
		if err != nil {
			return fmt.Errorf("saving prediction: %w", err)
		}
		env.log.Debug().Str("id", id).Msg("prediction saved")
	}

	if suggestLimit > 0 && len(res.Suggestions) > suggestLimit {
		res.Suggestions = res.Suggestions[:suggestLimit]
	}

	if flagJSON {
		return writeJSON(res)
	}
	renderResult("Suggestions for "+user, res)
	return nil
}

func runSuggestHistory(env *appEnv, user string) error {
	preds, err := env.db.ListPredictions(user, suggestHistory)
	if err != nil {
		return fmt.Errorf("listing predictions: %w", err)
	}

	if flagJSON {
		if preds == nil {
			preds = []store.Prediction{}
		}
		return writeJSON(preds)
	}

	if len(preds) == 0 {
		fmt.Println("No saved suggestions yet. Run 'climatiqq suggest --save' first.")
		return nil
	}
	for _, p := range preds {
		renderResult(p.CreatedAt.Local().Format("2006-01-02 15:04"), p.Result)
	}
	return nil
}

// renderResult prints one engine result in ranked order.
func renderResult(title string, res recommend.Result) {
	fmt.Println(output.Section(title))
	fmt.Println()

	for i, s := range res.Suggestions {
		fmt.Printf(" #%d %s %s\n", i+1, output.ImpactBadge(s.Impact), output.StyleBold.Render(s.Title))
		fmt.Printf("    Effort: %s", s.Effort)
		if s.Category != "" {
			fmt.Printf("  |  Category: %s", s.Category)
		}
		fmt.Println()
		fmt.Printf("    %s\n", s.Message)
		fmt.Println()
	}

	meta := fmt.Sprintf(" model: %s  confidence: %.2f", res.ModelType, res.Confidence)
	if res.Features != nil {
		meta += fmt.Sprintf("  entries analysed: %d", res.Features.TotalEntries)
	}
	fmt.Println(output.StyleMuted.Render(meta))
	if res.Error != "" {
		fmt.Println(output.StyleWarning.Render(" engine error: " + res.Error))
	}
}
