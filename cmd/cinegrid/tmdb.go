package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vversio/cinegrid/internal/client"
	"github.com/vversio/cinegrid/internal/tmdb"
)

func init() {
	searchCmd := &cobra.Command{
		Use:   "search [flags] <query>...",
		Short: "Search TMDB",
		Long: `Search TMDB through the server's rate-limited proxy.

Examples:
  cinegrid search "The Matrix"
  cinegrid search --type series "Dark"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
	searchCmd.Flags().StringP("type", "t", "movie", "Media type: movie or series")

	detailsCmd := &cobra.Command{
		Use:   "details <tmdb-id>",
		Short: "Show TMDB details for a title",
		Args:  cobra.ExactArgs(1),
		RunE:  runDetails,
	}
	detailsCmd.Flags().StringP("type", "t", "movie", "Media type: movie or series")

	rootCmd.AddCommand(searchCmd, detailsCmd)
}

func mediaTypeFlag(cmd *cobra.Command) (tmdb.MediaType, error) {
	s, _ := cmd.Flags().GetString("type")
	mt, ok := tmdb.ParseMediaType(s)
	if !ok {
		return "", fmt.Errorf("invalid type %q: must be movie or series", s)
	}
	return mt, nil
}

// explainTMDBError turns proxy errors into something actionable.
func explainTMDBError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch {
		case client.IsRateLimited(err):
			return fmt.Errorf("rate limited, retry in %.1fs", apiErr.RetryAfter.Seconds())
		case apiErr.Code == "SERVICE_UNAVAILABLE":
			return errors.New("TMDB is not configured on the server")
		}
	}
	return err
}

func runSearch(cmd *cobra.Command, args []string) error {
	mt, err := mediaTypeFlag(cmd)
	if err != nil {
		return err
	}
	q := strings.Join(args, " ")

	ctx, cancel := commandContext(cmd)
	defer cancel()

	resp, err := newClient().SearchTMDB(ctx, q, mt)
	if err != nil {
		return explainTMDBError(err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, resp)
		return nil
	}
	if len(resp.Results) == 0 {
		fmt.Fprintln(out, "No results found")
		return nil
	}
	printSearchResults(out, resp)
	return nil
}

func printSearchResults(w io.Writer, resp *tmdb.SearchResponse) {
	fmt.Fprintf(w, "  %-8s %-45s %-6s %s\n", "TMDB", "TITLE", "YEAR", "GENRE")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 80))
	for i := range resp.Results {
		r := &resp.Results[i]
		year := "-"
		if y := r.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		genre := r.PrimaryGenre()
		if genre == "" {
			genre = "-"
		}
		fmt.Fprintf(w, "  %-8d %-45s %-6s %s\n", r.ID, truncate(r.Title, 45), year, genre)
	}
}

func runDetails(cmd *cobra.Command, args []string) error {
	mt, err := mediaTypeFlag(cmd)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid TMDB ID: %s", args[0])
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := newClient().TMDBDetails(ctx, id, mt)
	if err != nil {
		return explainTMDBError(err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, d)
		return nil
	}
	printDetails(out, d)
	return nil
}

func printDetails(w io.Writer, d *tmdb.Details) {
	fmt.Fprintf(w, "%s", d.Title)
	if y := d.Year(); y > 0 {
		fmt.Fprintf(w, " (%d)", y)
	}
	fmt.Fprintln(w)
	if d.Tagline != nil {
		fmt.Fprintf(w, "  %q\n", *d.Tagline)
	}
	fmt.Fprintln(w)
	if len(d.Genres) > 0 {
		fmt.Fprintf(w, "  Genres:   %s\n", strings.Join(d.Genres, ", "))
	}
	if d.Runtime != nil {
		fmt.Fprintf(w, "  Runtime:  %d min\n", *d.Runtime)
	}
	if d.VoteAverage > 0 {
		fmt.Fprintf(w, "  Score:    %.1f\n", d.VoteAverage)
	}
	if url := tmdb.ImageURL(d.PosterPath, "w500"); url != "" {
		fmt.Fprintf(w, "  Poster:   %s\n", url)
	}
	fmt.Fprintf(w, "\n  %s\n", d.Overview)
}
