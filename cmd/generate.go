package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"mixdown/internal/generator"
	"mixdown/internal/shared"
)

// Generate resolves a playlist script and writes the rendered result.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	format, err := generator.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

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

	start := time.Now()
	result, err := gen.Run(ctx, script)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if len(result.Failures) > 0 {
		r.logger.Warn("some entries did not resolve", "count", len(result.Failures))
	}
	r.logger.Debug("generation finished", "tracks", len(result.URIs()), "elapsed", elapsed)

	rendered := result.Render(format)
	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, []byte(rendered+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		r.logger.Info("playlist written", "path", path)
	} else {
		fmt.Fprintln(r.output, rendered)
	}

	r.recordRun(ctx, script, result, format, elapsed)
	return nil
}
