// package services defines interface Upstream for the content API
package services

import (
	"context"

	"github.com/desertthunder/smarterz/internal/models"
)

// Upstream defines the read-only catalog operations of the content API.
type Upstream interface {
	// Batches lists every batch in the catalog.
	Batches(ctx context.Context) ([]models.Batch, error)

	// RawBatches returns the batch listing body exactly as the upstream sent it.
	RawBatches(ctx context.Context) ([]byte, error)

	// Subjects lists the subjects of a batch.
	Subjects(ctx context.Context, batchID string) ([]models.Subject, error)

	// Contents lists one content collection of a subject. Items are returned untagged.
	Contents(ctx context.Context, batchID, subjectID string, ct models.ContentType) ([]models.ContentItem, error)

	// Name returns the name of the upstream.
	Name() string
}
