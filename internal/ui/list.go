package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/smarterz/internal/models"
)

var (
	_ list.Item = batchItem{}
	_ list.Item = contentItem{}
)

// batchItem wraps [models.Batch] to implement [list.Item].
type batchItem struct {
	batch models.Batch
}

func (i batchItem) FilterValue() string { return i.batch.Name }
func (i batchItem) Title() string       { return i.batch.Name }
func (i batchItem) Description() string { return i.batch.ID }

// contentItem wraps [models.ContentItem] to implement [list.Item].
type contentItem struct {
	item models.ContentItem
	done bool
}

func (i contentItem) FilterValue() string { return i.item.DisplayTitle() }

func (i contentItem) Title() string {
	if i.done {
		return "✓ " + i.item.DisplayTitle()
	}
	return i.item.DisplayTitle()
}

func (i contentItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.item.SubjectName, i.item.Type)
	if i.item.IsStream() {
		desc += " • stream"
	}
	return desc
}

func contentItems(items []models.ContentItem, done bool) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = contentItem{item: it, done: done}
	}
	return out
}
