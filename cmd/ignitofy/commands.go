package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/services"
)

type sessionFn func() *session

func newAddCmd(get sessionFn) *cobra.Command {
	var emoji, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := get().habits.Create(cmd.Context(), services.CreateHabitInput{
				Name:  strings.Join(args, " "),
				Emoji: emoji,
				Color: color,
			})
			if h == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", h.Emoji, h.Name, h.ID)
			return warnPersistence(cmd, err)
		},
	}

	cmd.Flags().StringVar(&emoji, "emoji", "", "Emoji shown next to the habit")
	cmd.Flags().StringVar(&color, "color", "", "Color as #RRGGBB")
	return cmd
}

func newListCmd(get sessionFn) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits with their streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := get()
			habits := s.habits.List()
			if len(habits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No habits yet. Add one with: ignitofy add <name>")
				return nil
			}

			today := s.habits.Today()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tHABIT\tTODAY\tSTREAK\tTOTAL")
			for _, h := range habits {
				mark := " "
				if h.IsCompletedOn(today) {
					mark = "x"
				}
				fmt.Fprintf(w, "%s\t%s %s\t[%s]\t%d\t%d\n", h.ID, h.Emoji, h.Name, mark, h.Streak(), h.CompletionCount())
			}
			return w.Flush()
		},
	}
}

func newToggleCmd(get sessionFn) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark or unmark a habit as done (today by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var day domain.Day
			if date != "" {
				parsed, err := domain.ParseDay(date)
				if err != nil {
					return err
				}
				day = parsed
			}

			s := get()
			h, err := s.habits.ToggleCompletion(cmd.Context(), args[0], day)
			if h == nil {
				return err
			}
			if day == "" {
				day = s.habits.Today()
			}

			state := "not done"
			if h.IsCompletedOn(day) {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s marked %s on %s (streak %d)\n", h.Emoji, h.Name, state, day, h.Streak())
			return warnPersistence(cmd, err)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to toggle as YYYY-MM-DD")
	return cmd
}

func newEditCmd(get sessionFn) *cobra.Command {
	var name, emoji, color string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a habit's name, emoji or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := services.UpdateHabitInput{ID: args[0]}
			if cmd.Flags().Changed("name") {
				input.Name = &name
			}
			if cmd.Flags().Changed("emoji") {
				input.Emoji = &emoji
			}
			if cmd.Flags().Changed("color") {
				input.Color = &color
			}

			h, err := get().habits.Update(cmd.Context(), input)
			if h == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", h.Emoji, h.Name)
			return warnPersistence(cmd, err)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&emoji, "emoji", "", "New emoji")
	cmd.Flags().StringVar(&color, "color", "", "New color as #RRGGBB, empty to remove")
	return cmd
}

func newDeleteCmd(get sessionFn) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := warnPersistence(cmd, get().habits.Delete(cmd.Context(), args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(get sessionFn) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every habit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all habits without --yes")
			}
			if err := warnPersistence(cmd, get().habits.ClearAll(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All habits deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting every habit")
	return cmd
}

func newStatsCmd(get sessionFn) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show overall progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := get()
			trend, err := s.stats.Trend(days)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			agg := s.stats.Aggregate()
			fmt.Fprintf(out, "Habits: %d  Done today: %d (%.0f%%)\n", agg.TotalHabits, agg.CompletedToday, agg.TodayRate)
			fmt.Fprintf(out, "Completions: %d  Best streak: %d  Average streak: %d\n", agg.TotalCompletions, agg.BestStreak, agg.AverageStreak)

			fmt.Fprintf(out, "\nLast %d days:\n", days)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, p := range trend {
				fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d%%\n", p.Day, p.Day.Weekday().String()[:3], p.Completed, p.Total, p.Rate)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if best := s.stats.Weekdays().BestDay; best != "" {
				fmt.Fprintf(out, "\nBest day: %s\n", best)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Trend window in days")
	return cmd
}

func newRateCmd(get sessionFn) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "rate <id>",
		Short: "Show a habit's completion rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := get().stats.CompletionRate(args[0], days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.1f%% over the last %d days\n", rate, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Window in days")
	return cmd
}

func newCalendarCmd(get sessionFn) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar <id>",
		Short: "Show a month of completions for a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := get()
			at := s.habits.Today().Time()
			if month != "" {
				parsed, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("%w: month %q, expected YYYY-MM", domain.ErrValidation, month)
				}
				at = parsed
			}

			cal, err := s.stats.Calendar(args[0], at.Year(), at.Month())
			if err != nil {
				return err
			}
			renderCalendar(cmd, cal)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default current)")
	return cmd
}

func renderCalendar(cmd *cobra.Command, cal *domain.MonthCalendar) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %d\n", cal.Month, cal.Year)
	fmt.Fprintln(out, "Su Mo Tu We Th Fr Sa")

	fmt.Fprint(out, strings.Repeat("   ", int(cal.FirstWeekday)))
	col := int(cal.FirstWeekday)
	for i, d := range cal.Days {
		cell := fmt.Sprintf("%2d", i+1)
		if d.Completed {
			cell = " x"
		}
		fmt.Fprint(out, cell)

		col++
		if col == 7 {
			fmt.Fprintln(out)
			col = 0
		} else {
			fmt.Fprint(out, " ")
		}
	}
	if col != 0 {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d completions (%.0f%%)\n", cal.Completions, cal.CompletionRate)
}

func newExportCmd(get sessionFn) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of every habit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := get()
			data, err := domain.EncodeExport(s.habits.Export())
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if out == "" {
				out = domain.ExportFilename(s.habits.Today())
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d habits to %s\n", len(s.habits.List()), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, - for stdout (default ignitofy-backup-<date>.json)")
	return cmd
}

func newImportCmd(get sessionFn) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every habit with the contents of a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read backup: %w", err)
			}

			habits, err := get().habits.Import(cmd.Context(), data)
			if habits == nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d habits\n", len(habits))
			return warnPersistence(cmd, err)
		},
	}
}
