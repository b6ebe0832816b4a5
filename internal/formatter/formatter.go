// package formatter renders an aggregated batch to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/shared"
)

// Format names an output encoding.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{JSON, CSV, Markdown, Text}
}

// ParseFormat resolves a format name, accepting "md" and "text" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// BatchExport is one batch's items together with the completion state to render.
type BatchExport struct {
	BatchID   string
	BatchName string
	Items     []models.ContentItem
	Completed models.CompletedSet
	PlayerURL string
}

// Name returns the batch name, falling back to its ID.
func (e *BatchExport) Name() string {
	if e.BatchName != "" {
		return e.BatchName
	}
	return e.BatchID
}

// DoneCount counts the items present in the completed set.
func (e *BatchExport) DoneCount() int {
	_, done := e.Completed.Partition(e.Items)
	return len(done)
}

// Render encodes the export in the given format.
func Render(export *BatchExport, format Format) ([]byte, error) {
	switch format {
	case JSON:
		return ExportToJSON(export)
	case CSV:
		return ExportToCSV(export)
	case Markdown:
		return ExportToMarkdown(export)
	case Text:
		return ExportToText(export)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
}

// ExportToJSON emits the items in the same envelope the HTTP API uses.
func ExportToJSON(export *BatchExport) ([]byte, error) {
	items := export.Items
	if items == nil {
		items = []models.ContentItem{}
	}
	return shared.MarshalJSON(models.Envelope[models.ContentItem]{Data: items}, true)
}

// ExportToCSV converts a BatchExport to CSV format with columns: ID, Subject, Type, Title, URL, Done
func ExportToCSV(export *BatchExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Subject", "Type", "Title", "URL", "Done"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		record := []string{
			item.ID,
			item.SubjectName,
			string(item.Type),
			item.DisplayTitle(),
			item.StreamURL(),
			fmt.Sprint(export.Completed.Contains(item.ID)),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a BatchExport to a Markdown checklist grouped by subject
func ExportToMarkdown(export *BatchExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Name())
	fmt.Fprintf(&buf, "**Items**: %d\n", len(export.Items))
	fmt.Fprintf(&buf, "**Completed**: %d\n", export.DoneCount())

	order, groups := models.GroupBySubject(export.Items)
	for _, subject := range order {
		fmt.Fprintf(&buf, "\n## %s\n\n", subject)
		for _, item := range groups[subject] {
			check := " "
			if export.Completed.Contains(item.ID) {
				check = "x"
			}
			title := item.DisplayTitle()
			if link := item.ShareURL(export.PlayerURL); link != "" {
				title = fmt.Sprintf("[%s](%s)", title, link)
			}
			fmt.Fprintf(&buf, "- [%s] *%s* %s\n", check, item.Type, title)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a BatchExport to plain text format
func ExportToText(export *BatchExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Batch: %s\n", export.Name())
	fmt.Fprintf(&buf, "Items: %d (%d done)\n\n", len(export.Items), export.DoneCount())

	for i, item := range export.Items {
		mark := " "
		if export.Completed.Contains(item.ID) {
			mark = "x"
		}
		fmt.Fprintf(&buf, "%d. [%s] %s / %s - %s\n", i+1, mark, item.SubjectName, item.Type, item.ShareText(export.PlayerURL))
	}

	return buf.Bytes(), nil
}

// WriteExport renders the export and writes it to path.
//
// Defaults to {batchID}.{ext} in the working directory.
func WriteExport(export *BatchExport, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.%s", export.BatchID, format.Extension())
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
