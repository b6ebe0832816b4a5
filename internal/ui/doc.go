// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the browser dashboard:
//  1. [BatchListView] : Browse and select a batch
//  2. [LoadingView] : Watch the aggregation fan out across subjects
//  3. [ContentListView] : Pending and completed items, grouped by subject
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the Aggregator, providing non-blocking status reporting while a batch loads.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q). In the content view, space toggles the selected
// item between pending and completed, and c copies its share text to the system clipboard.
package ui
