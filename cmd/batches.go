package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/smarterz/internal/formatter"
	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/shared"
	"github.com/urfave/cli/v3"
)

// Batches lists the batches offered by the content API.
func (r *Runner) Batches(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireUpstream(); err != nil {
		return err
	}

	batches, err := r.upstream.Batches(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch batches: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(models.Envelope[models.Batch]{Data: batches}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Batches (%d)", len(batches)))
	for _, b := range batches {
		r.writePlain("%-12s %s\n", b.ID, b.Name)
	}
	return nil
}

// Batch aggregates one batch and renders it in the requested format.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireUpstream(); err != nil {
		return err
	}

	batchID := cmd.StringArg("id")
	if batchID == "" {
		return fmt.Errorf("%w: batch id", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	completed, err := store.Completed()
	if err != nil {
		return fmt.Errorf("failed to read progress: %w", err)
	}

	r.logger.Info("aggregating batch", "batch", batchID)
	result, err := r.aggregator.Aggregate(ctx, batchID, nil)
	if err != nil {
		return err
	}
	if failures := result.Failures(); len(failures) > 0 {
		r.logger.Warn("some collections could not be fetched", "failed", len(failures), "units", len(result.Units))
	}

	export := &formatter.BatchExport{
		BatchID:   batchID,
		BatchName: cmd.String("name"),
		Items:     result.Items,
		Completed: models.CompletedSet(completed),
		PlayerURL: r.config.Server.PlayerURL,
	}
	if cmd.Bool("pending") {
		export.Items, _ = export.Completed.Partition(result.Items)
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(export, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("export written", "path", written, "items", len(export.Items))
		return nil
	}

	data, err := formatter.Render(export, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if format == formatter.JSON {
		return r.writePlain("\n")
	}
	return nil
}
