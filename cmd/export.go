package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes one or more playlists to files on disk. Without --id every
// playlist the user owns or follows is exported.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	ids := cmd.StringSlice("id")
	if len(ids) == 0 {
		playlists, err := r.service.GetPlaylists(ctx)
		if err != nil {
			return fmt.Errorf("failed to get playlists: %w", err)
		}
		for _, p := range playlists {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return r.writePlainln("Nothing to export")
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate-limit"),
		Enrich:     cmd.Bool("enrich"),
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	result, err := r.engine.BulkExport(ctx, progress, ids, opts)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	r.writePlainHeader("Export complete")
	r.writePlainln("Succeeded: %d", result.SuccessfulExports)
	if result.FailedExports > 0 {
		r.writePlainln("Failed:    %d", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlainln("  ✗ %s: %s", res.PlaylistID, res.ErrorMessage)
			}
		}
	}
	r.writePlainln("Output:    %s", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlainln("Manifest:  %s", result.ManifestPath)
	}
	return nil
}
