package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vversio/cinegrid/internal/client"
	"github.com/vversio/cinegrid/internal/query"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List watched items",
		Long: `List watched items, filtered and sorted by the server.

Examples:
  cinegrid list
  cinegrid list --type series --sort rating-desc
  cinegrid list --genre Drama,Thriller --min-rating 4
  cinegrid list -q nolan`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	listCmd.Flags().StringP("sort", "s", string(query.SortRecent), "Sort: recent, title-asc, title-desc, rating-desc, release-date")
	listCmd.Flags().StringP("type", "t", string(query.MediaAll), "Media type: all, movie, series")
	listCmd.Flags().StringSliceP("genre", "g", nil, "Only these genres (comma separated, any of)")
	listCmd.Flags().Int("min-rating", 0, "Minimum rating 1-5")
	listCmd.Flags().StringP("query", "q", "", "Search title, genre and category")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a watched item",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an item from the watch log",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}

	favCmd := &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle the favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE:  runFavorite,
	}

	rateCmd := &cobra.Command{
		Use:   "rate <id> <1-5|none>",
		Short: "Rate an item, or clear its rating with 'none'",
		Args:  cobra.ExactArgs(2),
		RunE:  runRate,
	}

	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorites, most recently added first",
		Args:  cobra.NoArgs,
		RunE:  runFavorites,
	}

	rootCmd.AddCommand(listCmd, showCmd, rmCmd, favCmd, rateCmd, favoritesCmd)
}

func filterFromFlags(cmd *cobra.Command) (query.FilterState, error) {
	f := query.DefaultFilterState()
	sortBy, _ := cmd.Flags().GetString("sort")
	mediaType, _ := cmd.Flags().GetString("type")
	genres, _ := cmd.Flags().GetStringSlice("genre")
	minRating, _ := cmd.Flags().GetInt("min-rating")
	search, _ := cmd.Flags().GetString("query")

	f.Sort = query.SortOption(sortBy)
	f.MediaType = query.MediaFilter(mediaType)
	f.Genres = genres
	if cmd.Flags().Changed("min-rating") {
		f.MinRating = &minRating
	}
	f.Search = search

	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

func runList(cmd *cobra.Command, args []string) error {
	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	resp, err := newClient().List(ctx, f)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, resp)
		return nil
	}
	if len(resp.Items) == 0 {
		if f.Active() {
			fmt.Fprintln(out, "No items match the current filters.")
		} else {
			fmt.Fprintln(out, "Nothing watched yet.")
		}
		return nil
	}

	fmt.Fprintf(out, "Watched (%d items):\n\n", resp.Total)
	printItemTable(out, resp.Items)
	return nil
}

func printItemTable(w io.Writer, items []client.Item) {
	fmt.Fprintf(w, "  %-36s %-6s %-40s %-10s %-12s %-6s %s\n", "ID", "TYPE", "TITLE", "WATCHED", "GENRE", "RATING", "FAV")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 124))
	for i := range items {
		it := &items[i]
		fmt.Fprintf(w, "  %-36s %-6s %-40s %-10s %-12s %-6s %s\n",
			it.ID,
			it.MediaType,
			truncate(it.Title, 40),
			it.WatchedDate,
			truncate(it.Genre, 12),
			formatRating(it.UserRating),
			favoriteMark(it.IsFavorite))
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	it, err := newClient().Get(ctx, args[0])
	if err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("item %s not found", args[0])
		}
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, it)
		return nil
	}
	printItem(out, it)
	return nil
}

func printItem(w io.Writer, it *client.Item) {
	fmt.Fprintf(w, "%s (%s)\n", it.Title, it.MediaType)
	fmt.Fprintf(w, "  ID:        %s\n", it.ID)
	fmt.Fprintf(w, "  TMDB:      %d\n", it.TMDBID)
	fmt.Fprintf(w, "  Watched:   %s\n", it.WatchedDate)
	fmt.Fprintf(w, "  Genre:     %s\n", it.Genre)
	if it.CustomCategory != nil {
		fmt.Fprintf(w, "  Category:  %s\n", *it.CustomCategory)
	}
	fmt.Fprintf(w, "  Rating:    %s\n", formatRating(it.UserRating))
	fmt.Fprintf(w, "  Favorite:  %t\n", it.IsFavorite)
	if it.PosterURL != "" {
		fmt.Fprintf(w, "  Poster:    %s\n", it.PosterURL)
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := newClient().Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return nil
}

// loadView fetches the watch log into a view and checks that id is in it.
func loadView(cmd *cobra.Command, id string) (*client.View, client.Item, error) {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	v := client.NewView(newClient())
	if err := v.Load(ctx, query.DefaultFilterState()); err != nil {
		return nil, client.Item{}, err
	}
	it, ok := v.Item(id)
	if !ok {
		return nil, client.Item{}, fmt.Errorf("item %s not found", id)
	}
	return v, it, nil
}

func runFavorite(cmd *cobra.Command, args []string) error {
	v, _, err := loadView(cmd, args[0])
	if err != nil {
		return fmt.Errorf("favorite failed: %w", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := v.ToggleFavorite(ctx, args[0]); err != nil {
		return fmt.Errorf("favorite failed: %w", err)
	}
	it, _ := v.Item(args[0])

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, it)
		return nil
	}
	verb := "Unmarked"
	if it.IsFavorite {
		verb = "Marked"
	}
	fmt.Fprintf(out, "%s %s as favorite (%d favorites)\n", verb, it.Title, v.Stats().FavoriteCount)
	return nil
}

// parseRating accepts 1-5, or "none"/"0" to clear.
func parseRating(s string) (*int, error) {
	if s == "none" || s == "0" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 5 {
		return nil, fmt.Errorf("rating must be 1-5 or none, got %q", s)
	}
	return &n, nil
}

func runRate(cmd *cobra.Command, args []string) error {
	rating, err := parseRating(args[1])
	if err != nil {
		return err
	}

	v, before, err := loadView(cmd, args[0])
	if err != nil {
		return fmt.Errorf("rate failed: %w", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := v.UpdateRating(ctx, args[0], rating); err != nil {
		return fmt.Errorf("rate failed: %w", err)
	}
	it, _ := v.Item(args[0])

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, it)
		return nil
	}
	fmt.Fprintf(out, "%s: %s -> %s\n", it.Title, formatRating(before.UserRating), formatRating(it.UserRating))
	fmt.Fprintf(out, "Average rating: %s\n", formatAvg(v.Stats().AvgRating))
	return nil
}

func runFavorites(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	resp, err := newClient().Favorites(ctx)
	if err != nil {
		return fmt.Errorf("favorites failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, resp)
		return nil
	}
	if len(resp.Items) == 0 {
		fmt.Fprintln(out, "No favorites yet.")
		return nil
	}
	fmt.Fprintf(out, "Favorites (%d):\n\n", resp.Total)
	printItemTable(out, resp.Items)
	return nil
}
