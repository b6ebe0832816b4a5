package tasks

import (
	"fmt"

	"github.com/desertthunder/smarterz/internal/models"
)

// ProgressUpdate represents a progress event during aggregation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSubjects Phase = iota
	FetchContents
	Flatten
)

func (p Phase) String() string {
	switch p {
	case FetchSubjects:
		return "fetch_subjects"
	case FetchContents:
		return "fetch_contents"
	case Flatten:
		return "flatten"
	default:
		return ""
	}
}

func fetchSubjectsUpdate(batchID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSubjects,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching subjects for batch %s...", batchID),
	}
}

func fetchContentsUpdate(step, total int, unit FetchResult) ProgressUpdate {
	msg := fmt.Sprintf("Fetched %s for %s (%d items)", unit.Type, unit.Subject.Name, len(unit.Items))
	if unit.Failed() {
		msg = fmt.Sprintf("Skipped %s for %s", unit.Type, unit.Subject.Name)
	}
	return ProgressUpdate{
		Phase:   FetchContents,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    unit,
	}
}

func flattenUpdate(items []models.ContentItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Flatten,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Collected %d items", len(items)),
	}
}
