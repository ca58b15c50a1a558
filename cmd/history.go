package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"mixdown/internal/history"
	"mixdown/internal/shared"
)

// History prints recent generation runs from the history database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to migrate history database: %w", err)
	}

	runs, err := history.NewStore(db).Recent(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(r.output, "no runs recorded")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(r.output, "%s  %s  %3d entries  %3d tracks  %-5s  %dms\n",
			run.CreatedAt.Format("2006-01-02 15:04"), run.ScriptHash,
			run.EntryCount, run.TrackCount, run.Format, run.DurationMS)
	}
	return nil
}
