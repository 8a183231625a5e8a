// History inspection for the CLI.

package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/richinex/multimodel/storage"
)

// PrintHistory writes the most recent calls of a session as a table. An
// empty sessionID selects the session of the latest recorded call.
func PrintHistory(ctx context.Context, dbPath, sessionID string, limit int, out io.Writer) error {
	if dbPath == "" {
		return fmt.Errorf("history database not configured: set MULTIMODEL_HISTORY_DB or pass --db")
	}

	db, err := storage.OpenSqlite(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	if sessionID == "" {
		sessionID, err = db.LatestSession(ctx)
		if err != nil {
			return err
		}
		if sessionID == "" {
			fmt.Fprintln(out, "No calls recorded")
			return nil
		}
	}

	records, err := db.Recent(ctx, sessionID, limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "No calls recorded for session %s\n", sessionID)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTOOL\tPROVIDER\tSTATUS\tDURATION")
	for _, rec := range records {
		status := "ok"
		if !rec.Success {
			status = "error: " + rec.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.Format(time.RFC3339), rec.Tool, rec.Provider, status, rec.Duration.Round(time.Millisecond))
	}
	return w.Flush()
}
