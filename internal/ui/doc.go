// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through a release radar update:
//  1. [DiscoverView] : Spinner and live progress while new releases are discovered
//  2. [ReleaseListView] : Browse the deduplicated releases, oldest first
//  3. [ConfirmView] : Confirm replacing the target playlist
//  4. [WriteView] : Monitor the playlist write
//  5. [ResultView] : Display the written playlist and whether the catalog confirmed it
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the engine, so long operations never block rendering.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
