// package playlist defines the entry model at the heart of generation.
//
// An [Entry] is one unit of input: a track query, a known ID, or a directive
// that expands into more entries (album listings, artist discographies, top
// tracks, related-artist mixes, public playlists). Resolving an entry yields
// an [Outcome]: either the entry itself, now carrying catalog metadata, or a
// [Queue] of further entries.
//
// A [Queue] holds entries and nested queues in input order. [Queue.Dispatch]
// resolves them strictly sequentially; the catalog client's rate limiter
// depends on that, so resolution must not be parallelized. Failures are
// collected per entry as [DispatchFailures] rather than aborting the run.
//
// Entries hold a [Resolver] with their collaborators. The resolver is passed
// down explicitly from the caller; nothing in this package reads global
// state.
package playlist
