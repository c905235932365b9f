// Package tasks implements the release radar operations with real-time progress reporting.
//
// # Core Operations
//
// The [RadarEngine] interface defines the operations:
//
//  1. [RadarEngine.Discover] : New tracks of followed artists
//     - Fetches every followed artist with full album detail
//     - Walks albums oldest first; each track name is claimed by its first album
//     - Keeps tracks of recent, non-collection albums that credit the artist
//
//  2. [RadarEngine.Reconcile] : Refresh the managed playlist
//     - Finds the playlist by exact name or creates it privately
//     - Deduplicates releases by track id ([UniqueTracks]) and orders them by release date
//     - Replaces the playlist contents; a missing confirmation is logged, not returned
//
//  3. [RadarEngine.SetOperation] : Union or intersection of playlists
//     - Resolves every input before writing anything
//     - Writes the combined set to the output playlist
//
//  4. [RadarEngine.NewAlbums] : Recent albums per artist, for display
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate].
// Updates use select with default so a slow consumer never blocks an operation.
//
// # Cancellation
//
// Operations stop issuing requests as soon as the context is cancelled and return the context error.
package tasks
