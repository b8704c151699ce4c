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

var (
	logNote   string
	logAt     string
	logList   bool
	logMetric string
	logDays   int
	logLimit  int
	logDelete int64
)

var logCmd = &cobra.Command{
	Use:   "log [metric_type] [value]",
	Short: "Record an impact entry, or list and delete entries",
	Long: `Record a carbon, water, energy or digital usage entry for the current user.
Values are in kg CO2, liters, kWh and hours respectively.

Examples:
  climatiqq log carbon 15.5 --note "Car travel to work"
  climatiqq log water 120
  climatiqq log energy 8 --at 2026-03-01T18:00:00Z
  climatiqq log --list
  climatiqq log --list --metric carbon --days 30
  climatiqq log --delete 42`,
	Args: cobra.ArbitraryArgs,
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logNote, "note", "", "Optional description")
	logCmd.Flags().StringVar(&logAt, "at", "", "Entry time in RFC3339 (default: now)")
	logCmd.Flags().BoolVar(&logList, "list", false, "List logged entries")
	logCmd.Flags().StringVar(&logMetric, "metric", "", "Filter --list by metric type")
	logCmd.Flags().IntVar(&logDays, "days", 0, "Filter --list to last N days")
	logCmd.Flags().IntVar(&logLimit, "limit", 0, "Maximum entries for --list")
	logCmd.Flags().Int64Var(&logDelete, "delete", 0, "Delete the entry with this ID")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if logDelete > 0 {
		if err := env.db.DeleteEntry(env.user(), logDelete); err != nil {
			return fmt.Errorf("deleting entry %d: %w", logDelete, err)
		}
		fmt.Printf("Deleted entry %d\n", logDelete)
		return nil
	}

	if logList {
		return runLogList(env)
	}

	if len(args) < 2 {
		return fmt.Errorf("usage: climatiqq log <metric_type> <value> [flags]\nUse --list to view logged entries")
	}

	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing value %q: expected a number", args[1])
	}

	in := impact.Input{
		User:        env.user(),
		MetricType:  args[0],
		Value:       value,
		Description: logNote,
		CreatedAt:   logAt,
	}
	rec, err := in.Record(env.cfg.DefaultUser, time.Now())
	if err != nil {
		return err
	}
	if _, err := env.db.InsertEntry(&rec); err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}

	if flagJSON {
		return writeJSON(rec)
	}
	fmt.Printf("Logged %s = %s (id %d)\n", rec.MetricType, formatValue(rec.Value, rec.MetricType), rec.ID)
	return nil
}

// runLogList displays the user's entries, newest first.
func runLogList(env *appEnv) error {
	f := store.EntryFilter{User: env.user(), Limit: logLimit}
	if logMetric != "" {
		m, err := impact.ParseMetricType(logMetric)
		if err != nil {
			return err
		}
		f.MetricType = m
	}
	if logDays > 0 {
		f.Since = time.Now().AddDate(0, 0, -logDays)
	}

	records, err := env.db.ListEntries(f)
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	if flagJSON {
		if records == nil {
			records = []impact.Record{}
		}
		return writeJSON(records)
	}

	if len(records) == 0 {
		fmt.Println("No entries logged yet. Use 'climatiqq log <metric_type> <value>' to start.")
		return nil
	}

	fmt.Println(output.Section("Impact Entries"))
	fmt.Println()

	tbl := output.NewTable("ID", "Time", "Metric", "Value", "Note")
	for _, r := range records {
		tbl.AddRow(
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			string(r.MetricType),
			formatValue(r.Value, r.MetricType),
			truncateText(r.Description, 40),
		)
	}
	tbl.Print()
	return nil
}

// formatValue renders a value with its unit, dropping a zero fraction.
func formatValue(v float64, m impact.MetricType) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if v == float64(int64(v)) {
		s = strconv.FormatInt(int64(v), 10)
	}
	return s + " " + m.Unit()
}

// truncateText shortens s to n runes with a trailing ellipsis.
func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
