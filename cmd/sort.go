package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mikehinnen/spotify-cycling-sorter/internal/formatter"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/services"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/shared"
	"github.com/mikehinnen/spotify-cycling-sorter/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sort runs the pyramid sort pipeline for one playlist and prints the
// energy profile before and after. With --publish the sorted order is
// written back as a new playlist.
func (r *Runner) Sort(ctx context.Context, cmd *cli.Command) error {
	idOrName := cmd.String("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.engine == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	opts := tasks.SortOptions{
		Publish:    cmd.Bool("publish") && !cmd.Bool("dry-run"),
		NameSuffix: cmd.String("name-suffix"),
		Public:     cmd.Bool("public"),
	}
	if opts.NameSuffix == "" {
		opts.NameSuffix = r.config.Sorter.NameSuffix
	}
	if !cmd.IsSet("public") {
		opts.Public = r.config.Sorter.Public
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

	result, runErr := r.engine.Run(ctx, progress, idOrName, opts)
	close(progress)
	wg.Wait()

	var partial *services.PartialPublishError
	if runErr != nil && !errors.As(runErr, &partial) {
		return runErr
	}

	if useJSON {
		if err := r.writeJSON(result, pretty); err != nil {
			return err
		}
		return runErr
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d tracks)", result.Playlist.Name, len(result.Original)))
	if result.DroppedCount > 0 {
		r.writePlainln("Dropped %d local tracks without a platform ID", result.DroppedCount)
	}
	if result.MissingFeatures > 0 {
		r.writePlainln("%d tracks have no audio features and rank at the low end", result.MissingFeatures)
	}

	r.writePlainln("\nBefore:")
	r.writePlain("%s", formatter.EnergyProfile(result.Original))
	r.writePlainln("\nAfter:")
	r.writePlain("%s", formatter.EnergyProfile(result.Sorted))

	switch {
	case partial != nil:
		r.writePlainln("\n✗ Published playlist %q (%s) is incomplete: %d of %d track batches appended",
			result.PublishedName, partial.PlaylistID, partial.BatchesDone, partial.BatchesTotal)
		return runErr
	case opts.Publish:
		r.writePlainln("\n✓ Published %q [%s]", result.PublishedName, result.PublishedID)
	default:
		r.writePlainln("\nDry run: re-run with --publish to create the sorted playlist")
	}
	return nil
}
