package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vversio/cinegrid/internal/client"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Server status and TMDB quota",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	st, err := newClient().Status(ctx)
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		printJSON(out, st)
		return nil
	}
	printStatus(out, serverURL, st)
	return nil
}

func printStatus(w io.Writer, server string, st *client.StatusResponse) {
	tmdbStatus := "not configured"
	if st.TMDB {
		tmdbStatus = "configured"
	}
	fmt.Fprintf(w, "cinegrid v%s | Server: %s | Status: %s | TMDB: %s\n\n", st.Version, server, st.Status, tmdbStatus)
	fmt.Fprintf(w, "Items:  %d watched\n", st.Items)
	if st.RateLimit != nil {
		fmt.Fprintf(w, "Quota:  %d requests left, window resets in %.1fs\n",
			st.RateLimit.Remaining, float64(st.RateLimit.ResetInMs)/1000)
	}
}
