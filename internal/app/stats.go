package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/climatiqq/climatiqq/internal/impact"
	"github.com/climatiqq/climatiqq/internal/output"
	"github.com/climatiqq/climatiqq/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and recent activity per metric",
	Long: `Summarise every entry of the current user: total entries, entries in the
last 30 days, activity in the last 7 days, and per-metric totals and
averages. The two windows are configurable under stats in config.yaml.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// statsOutput is the JSON-serializable output for the stats command.
type statsOutput struct {
	User string `json:"user"`
	impact.Stats
}

func runStats(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	user := env.user()
	records, err := env.db.ListEntries(store.EntryFilter{User: user})
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}
	stats := impact.Summarize(records, time.Now(), env.cfg.Stats.RecentDays, env.cfg.Stats.ActivityDays)

	if flagJSON {
		return writeJSON(statsOutput{User: user, Stats: stats})
	}
	renderStats(user, stats, env.cfg.Stats.RecentDays, env.cfg.Stats.ActivityDays)
	return nil
}

func renderStats(user string, st impact.Stats, recentDays, activityDays int) {
	fmt.Println(output.Section("Impact Stats: " + user))
	fmt.Println()
	fmt.Printf(" %s%s\n", output.StyleLabel.Render("Total entries"), output.StyleValue.Render(strconv.Itoa(st.TotalEntries)))
	fmt.Printf(" %s%s\n", output.StyleLabel.Render(fmt.Sprintf("Last %d days", recentDays)), output.StyleValue.Render(strconv.Itoa(st.RecentEntries)))
	fmt.Printf(" %s%s\n", output.StyleLabel.Render(fmt.Sprintf("Last %d days", activityDays)), output.StyleValue.Render(strconv.Itoa(st.RecentActivity)))
	fmt.Println()

	if len(st.MetricBreakdown) == 0 {
		fmt.Println(" No entries yet.")
		return
	}

	tbl := output.NewTable("Metric", "Entries", "Total", "Average", "Share of entries")
	for _, m := range st.MetricBreakdown {
		tbl.AddRow(
			m.MetricType.Label(),
			strconv.Itoa(m.Count),
			formatValue(m.TotalValue, m.MetricType),
			formatValue(m.AvgValue, m.MetricType),
			output.ShareBar(float64(m.Count), float64(st.TotalEntries), 20),
		)
	}
	tbl.Print()
}
