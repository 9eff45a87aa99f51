package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vversio/cinegrid/internal/client"
	"github.com/vversio/cinegrid/internal/tmdb"
	"github.com/vversio/cinegrid/pkg/titlematch"
)

var addCmd = &cobra.Command{
	Use:   "add [flags] <title>...",
	Short: "Log a watched movie or series",
	Long: `Log a watched movie or series.

The title is looked up on TMDB and the closest result supplies the TMDB ID,
poster and primary genre. Pass --tmdb-id to skip the lookup.

Examples:
  cinegrid add "Fight Club"
  cinegrid add "Dune" --year 2021 --rating 5
  cinegrid add "Dark" --type series --date 2024-02-01 --category "German TV"
  cinegrid add "Home Movie" --tmdb-id 0 --genre Documentary`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("type", "t", "movie", "Media type: movie or series")
	addCmd.Flags().Int("year", 0, "Release year, used to pick between remakes")
	addCmd.Flags().String("date", "", "Date watched, YYYY-MM-DD (default today)")
	addCmd.Flags().String("genre", "", "Genre (default: TMDB primary genre)")
	addCmd.Flags().String("category", "", "Custom category")
	addCmd.Flags().Int("rating", 0, "Rating 1-5")
	addCmd.Flags().Bool("favorite", false, "Mark as favorite")
	addCmd.Flags().Int64("tmdb-id", -1, "TMDB ID; skips the title lookup")
	addCmd.Flags().Bool("force", false, "Accept a low-confidence TMDB match")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")
	typeFlag, _ := cmd.Flags().GetString("type")
	year, _ := cmd.Flags().GetInt("year")
	date, _ := cmd.Flags().GetString("date")
	genre, _ := cmd.Flags().GetString("genre")
	category, _ := cmd.Flags().GetString("category")
	rating, _ := cmd.Flags().GetInt("rating")
	favorite, _ := cmd.Flags().GetBool("favorite")
	tmdbID, _ := cmd.Flags().GetInt64("tmdb-id")
	force, _ := cmd.Flags().GetBool("force")

	mt, ok := tmdb.ParseMediaType(typeFlag)
	if !ok {
		return fmt.Errorf("invalid type %q: must be movie or series", typeFlag)
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	req := &client.AddItemRequest{
		TMDBID:      tmdbID,
		Title:       title,
		WatchedDate: date,
		Genre:       genre,
		MediaType:   string(mt),
		IsFavorite:  favorite,
	}
	if category != "" {
		req.CustomCategory = &category
	}
	if cmd.Flags().Changed("rating") {
		r, err := parseRating(fmt.Sprint(rating))
		if err != nil {
			return err
		}
		req.UserRating = r
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	c := newClient()

	if tmdbID < 0 {
		if err := resolveFromSearch(ctx, c, req, year, mt, force); err != nil {
			return err
		}
	} else if tmdbID > 0 && genre == "" {
		d, err := c.TMDBDetails(ctx, tmdbID, mt)
		if err != nil {
			return fmt.Errorf("lookup TMDB %d: %w", tmdbID, err)
		}
		req.Title = d.Title
		req.PosterPath = d.PosterPath
		if len(d.Genres) > 0 {
			req.Genre = d.Genres[0]
		}
	}
	if req.Genre == "" {
		return errors.New("no genre known for this title; pass --genre")
	}

	it, err := c.Add(ctx, req)
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, it)
		return nil
	}
	fmt.Fprintf(out, "Added %s (%s, %s) as %s\n", it.Title, it.Genre, it.WatchedDate, it.ID)
	return nil
}

// resolveFromSearch fills TMDB fields on req from the best search match.
func resolveFromSearch(ctx context.Context, c *client.Client, req *client.AddItemRequest, year int, mt tmdb.MediaType, force bool) error {
	results, err := c.SearchTMDB(ctx, req.Title, mt)
	if err != nil {
		if client.IsRateLimited(err) {
			return fmt.Errorf("TMDB is busy, try again shortly: %w", err)
		}
		return fmt.Errorf("search TMDB: %w", err)
	}

	candidates := make([]titlematch.Candidate, len(results.Results))
	for i := range results.Results {
		candidates[i] = titlematch.Candidate{Title: results.Results[i].Title, Year: results.Results[i].Year()}
	}

	m := titlematch.Match(req.Title, year, candidates)
	if m.Index < 0 {
		return fmt.Errorf("no TMDB match for %q; pass --tmdb-id 0 and --genre to add it anyway", req.Title)
	}
	if m.Confidence == titlematch.ConfidenceLow && !force {
		return fmt.Errorf("closest TMDB match %q is a %s-confidence guess; pass --force to accept it", m.Title, m.Confidence)
	}

	hit := results.Results[m.Index]
	req.TMDBID = hit.ID
	req.Title = hit.Title
	req.PosterPath = hit.PosterPath
	if req.Genre == "" {
		req.Genre = hit.PrimaryGenre()
	}
	return nil
}
