package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/smarterz/internal/repositories"
	"github.com/desertthunder/smarterz/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProgressList prints the completed item IDs in insertion order.
func (r *Runner) ProgressList(ctx context.Context, cmd *cli.Command) error {
	store, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ids, err := store.Completed()
	if err != nil {
		return fmt.Errorf("failed to read progress: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(ids, false)
	}

	r.writePlainHeader(fmt.Sprintf("Completed (%d)", len(ids)))
	for _, id := range ids {
		r.writePlain("%s\n", id)
	}
	return nil
}

// ProgressDone adds an item to the completed set.
func (r *Runner) ProgressDone(ctx context.Context, cmd *cli.Command) error {
	return r.mutateProgress(cmd, func(id string, store repositories.ProgressStore) error {
		if err := store.MarkDone(id); err != nil {
			return err
		}
		return r.writePlain("✓ %s marked done\n", id)
	})
}

// ProgressUndone removes an item from the completed set.
func (r *Runner) ProgressUndone(ctx context.Context, cmd *cli.Command) error {
	return r.mutateProgress(cmd, func(id string, store repositories.ProgressStore) error {
		if err := store.MarkUndone(id); err != nil {
			return err
		}
		return r.writePlain("%s moved back to pending\n", id)
	})
}

// ProgressToggle flips an item between done and pending.
func (r *Runner) ProgressToggle(ctx context.Context, cmd *cli.Command) error {
	return r.mutateProgress(cmd, func(id string, store repositories.ProgressStore) error {
		done, err := store.Toggle(id)
		if err != nil {
			return err
		}
		if done {
			return r.writePlain("✓ %s marked done\n", id)
		}
		return r.writePlain("%s moved back to pending\n", id)
	})
}

func (r *Runner) mutateProgress(cmd *cli.Command, fn func(string, repositories.ProgressStore) error) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: item id", shared.ErrMissingArgument)
	}

	store, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := fn(id, store); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}
