package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vversio/cinegrid/internal/client"
)

func init() {
	genresCmd := &cobra.Command{
		Use:   "genres",
		Short: "Genres with their item counts",
		Args:  cobra.NoArgs,
		RunE:  runGenres,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Collection summary",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	trendsCmd := &cobra.Command{
		Use:   "trends",
		Short: "Items watched per month for the top genres",
		Long: `Items watched per month for the top genres.

Examples:
  cinegrid trends
  cinegrid trends --range year --top 3`,
		Args: cobra.NoArgs,
		RunE: runTrends,
	}
	trendsCmd.Flags().String("range", "all", "Time range: all or year (since January 1)")
	trendsCmd.Flags().Int("top", 0, "Number of genres to chart (default 7)")

	rootCmd.AddCommand(genresCmd, statsCmd, trendsCmd)
}

func runGenres(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	stats, err := newClient().GenreStats(ctx)
	if err != nil {
		return fmt.Errorf("genres failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, stats)
		return nil
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "Nothing watched yet.")
		return nil
	}
	printGenreStats(out, stats)
	return nil
}

func printGenreStats(w io.Writer, stats []client.GenreCount) {
	maxCount := stats[0].Count
	for _, gc := range stats {
		fmt.Fprintf(w, "  %-20s %4d  %s\n", truncate(gc.Genre, 20), gc.Count, bar(gc.Count, maxCount, 30))
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	st, err := newClient().Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, st)
		return nil
	}
	printStats(out, st)
	return nil
}

func printStats(w io.Writer, st *client.Stats) {
	fmt.Fprintln(w, "Collection")
	fmt.Fprintf(w, "  Movies:      %d\n", st.TotalMovies)
	fmt.Fprintf(w, "  Series:      %d\n", st.TotalSeries)
	fmt.Fprintf(w, "  Total:       %d\n", st.TotalItems)
	fmt.Fprintf(w, "  Avg rating:  %s\n", formatAvg(st.AvgRating))
	fmt.Fprintf(w, "  Favorites:   %d\n", st.FavoriteCount)
}

func runTrends(cmd *cobra.Command, args []string) error {
	rng, _ := cmd.Flags().GetString("range")
	top, _ := cmd.Flags().GetInt("top")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	tr, err := newClient().Trends(ctx, rng, top)
	if err != nil {
		return fmt.Errorf("trends failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, tr)
		return nil
	}
	if len(tr.Points) == 0 {
		fmt.Fprintln(out, "No watch history in this range.")
		return nil
	}
	printTrends(out, tr)
	return nil
}

// printTrends renders one row per month and one column per top genre.
func printTrends(w io.Writer, tr *client.TrendsResponse) {
	fmt.Fprintf(w, "  %-10s", "MONTH")
	for _, g := range tr.Genres {
		fmt.Fprintf(w, " %12s", truncate(g, 12))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+strings.Repeat("-", 10+13*len(tr.Genres)))

	for _, p := range tr.Points {
		label, _ := p["monthLabel"].(string)
		fmt.Fprintf(w, "  %-10s", label)
		for _, g := range tr.Genres {
			n, _ := p[g].(float64)
			fmt.Fprintf(w, " %12d", int(n))
		}
		fmt.Fprintln(w)
	}
}
