package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"mixdown/internal/shared"
	"mixdown/internal/ui"
)

// Preview resolves a playlist script and opens the result in the TUI.
func (r *Runner) Preview(ctx context.Context, cmd *cli.Command) error {
	script, err := r.readScript(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("%w: empty script", shared.ErrMissingArgument)
	}

	gen, err := r.newGenerator()
	if err != nil {
		return err
	}

	result, err := gen.Run(ctx, script)
	if err != nil {
		return err
	}
	if len(result.Failures) > 0 {
		r.logger.Warn("some entries did not resolve", "count", len(result.Failures))
	}

	name := cmd.Args().First()
	if name == "" || name == "-" {
		name = "playlist"
	}
	return ui.Run(name, result.Queue.Entries())
}
