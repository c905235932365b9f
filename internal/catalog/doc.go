// Package catalog models the remote music catalog in memory.
//
// # Capability
//
// [Catalog] is the set of remote operations the model needs. It is implemented by
// services.SpotifyService and by the in-memory fake used in tests.
//
// # Pagination
//
// [Collect] and [Scan] walk offset-paginated listings; [CollectCursor] walks the
// cursor-paginated followed-artists listing. Both verify that the server honours the page-size
// ceilings ([MaxPageSize], [MaxBatchSize]) and keeps its reported totals stable. Violations
// are returned as [*ProtocolError] and are never retried.
//
// # Entities
//
// [Artist], [Album] and [Playlist] expand lazily: the first call to an accessor fetches and
// memoizes, later calls return the memoized value. Accessors lock the entity for the duration
// of the fetch, so overlapping callers wait for the first result instead of refetching.
//
// A [Track] refers to its album by id only. Track equality is id equality; [TrackSet] is the
// id-keyed set used for playlist algebra.
package catalog
