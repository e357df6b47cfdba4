// Command examctl runs the console's exam classification and difficulty
// arithmetic offline, against saved backend responses.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stemsi/exstem-console/internal/config"
	"github.com/stemsi/exstem-console/internal/distribution"
	"github.com/stemsi/exstem-console/internal/logger"
	"github.com/stemsi/exstem-console/internal/model"
	"github.com/stemsi/exstem-console/internal/schedule"
	"github.com/stemsi/exstem-console/internal/upstream"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "examctl",
		Short:        "Classify exams and check difficulty mixes offline",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	root.AddCommand(classifyCmd(), splitCmd(), percentCmd())
	return root
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a saved exam list into live, upcoming and completed",
		RunE:  runClassify,
	}
	f := cmd.Flags()
	f.StringP("file", "f", "-", "Exam list JSON (\"-\" reads stdin)")
	f.StringP("category", "c", "all", "Category to list (all, live, upcoming, completed)")
	f.String("now", "", "Reference time, RFC 3339 (default: current time)")
	f.String("tz", "+05:30", "Offset for timestamps without one")
	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	file, _ := f.GetString("file")
	rawCategory, _ := f.GetString("category")
	rawNow, _ := f.GetString("now")
	rawTZ, _ := f.GetString("tz")
	level, _ := cmd.Flags().GetString("log-level")

	log := logger.SetupWriter(level, "pretty", cmd.ErrOrStderr())

	category, err := schedule.ParseCategory(rawCategory)
	if err != nil {
		return err
	}
	loc, err := config.ParseOffset(rawTZ)
	if err != nil {
		return err
	}
	now := time.Now()
	if rawNow != "" {
		if now, err = time.Parse(time.RFC3339, rawNow); err != nil {
			return fmt.Errorf("--now: %w", err)
		}
	}

	var in io.Reader = cmd.InOrStdin()
	if file != "-" {
		fh, err := os.Open(file)
		if err != nil {
			return err
		}
		defer fh.Close()
		in = fh
	}

	exams, err := upstream.DecodeExams(in, loc, log)
	if err != nil {
		return err
	}

	views := make([]model.ExamView, 0, len(exams))
	for _, e := range schedule.Filter(exams, category, now) {
		views = append(views, schedule.View(e, now))
	}
	counts := make(map[string]int, len(schedule.Categories))
	for c, n := range schedule.CountAll(exams, now) {
		counts[string(c)] = n
	}

	return writeJSON(cmd.OutOrStdout(), model.ExamListResult{
		Category: string(category),
		Exams:    views,
		Counts:   counts,
	})
}

func splitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Show the default easy/medium/hard split for a total",
		RunE: func(cmd *cobra.Command, _ []string) error {
			total, _ := cmd.Flags().GetInt("total")
			if total < 0 {
				return fmt.Errorf("--total must not be negative")
			}
			counts := distribution.DefaultSplit(total)
			out := map[string]interface{}{"total_questions": total, "counts": counts}
			if pct, err := distribution.ToPercentPayload(counts, total); err == nil {
				out["percentages"] = pct
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntP("total", "n", 0, "Total number of questions")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func percentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "percent",
		Short: "Validate tier counts and print the percentages sent to the bank",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			total, _ := f.GetInt("total")
			easy, _ := f.GetInt("easy")
			medium, _ := f.GetInt("medium")
			hard, _ := f.GetInt("hard")

			cfg := distribution.Config{
				TotalQuestions: total,
				Counts:         distribution.Counts{Easy: easy, Medium: medium, Hard: hard},
			}
			pct, err := distribution.ValidateReadyForPreview(cfg, true)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pct)
		},
	}
	f := cmd.Flags()
	f.IntP("total", "n", 0, "Total number of questions")
	f.Int("easy", 0, "Easy questions")
	f.Int("medium", 0, "Medium questions")
	f.Int("hard", 0, "Hard questions")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
