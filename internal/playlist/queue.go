package playlist

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"mixdown/internal/rank"
)

// node is one slot in a queue: either a single entry or a nested queue
// produced by expanding one.
type node struct {
	entry Entry
	queue *Queue
}

// Queue is an ordered collection of entries and nested queues. Dispatch
// resolves it in place, strictly in order; the post-processing methods
// (Dedup, Sort, Group, Alternate, ...) operate on the flattened entry list.
type Queue struct {
	nodes []node
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends a single entry.
func (q *Queue) Push(e Entry) {
	q.nodes = append(q.nodes, node{entry: e})
}

// PushQueue appends a nested queue, keeping its entries contiguous.
func (q *Queue) PushQueue(sub *Queue) {
	if sub == nil || len(sub.nodes) == 0 {
		return
	}
	q.nodes = append(q.nodes, node{queue: sub})
}

// Len counts entries, descending into nested queues.
func (q *Queue) Len() int {
	n := 0
	for _, nd := range q.nodes {
		if nd.queue != nil {
			n += nd.queue.Len()
		} else {
			n++
		}
	}
	return n
}

// Entries returns the flattened entry list without mutating the queue.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, 0, q.Len())
	for _, nd := range q.nodes {
		if nd.queue != nil {
			out = append(out, nd.queue.Entries()...)
		} else {
			out = append(out, nd.entry)
		}
	}
	return out
}

// DispatchFailure records one entry that failed to resolve.
type DispatchFailure struct {
	Entry Entry
	Err   error
}

// DispatchFailures aggregates per-entry resolution failures. A dispatch with
// failures still yields a usable queue; callers decide whether partial output
// is acceptable.
type DispatchFailures []DispatchFailure

func (f DispatchFailures) Error() string {
	if len(f) == 1 {
		return fmt.Sprintf("1 entry failed to resolve: %q: %v", f[0].Entry.Title(), f[0].Err)
	}
	titles := make([]string, len(f))
	for i, failure := range f {
		titles[i] = fmt.Sprintf("%q", failure.Entry.Title())
	}
	return fmt.Sprintf("%d entries failed to resolve: %s", len(f), strings.Join(titles, ", "))
}

// Dispatch resolves every entry strictly in order, replacing each slot with
// its outcome. Entries that expand into queues are dispatched recursively.
// Failed entries are dropped from the queue and collected; the returned error
// is a [DispatchFailures] when any entry failed, nil otherwise.
func (q *Queue) Dispatch(ctx context.Context) error {
	var failures DispatchFailures

	kept := q.nodes[:0]
	for _, nd := range q.nodes {
		if nd.queue != nil {
			if err := nd.queue.Dispatch(ctx); err != nil {
				var nested DispatchFailures
				if errors.As(err, &nested) {
					failures = append(failures, nested...)
				} else {
					return err
				}
			}
			kept = append(kept, nd)
			continue
		}

		outcome, err := nd.entry.Resolve(ctx)
		if err != nil {
			failures = append(failures, DispatchFailure{Entry: nd.entry, Err: err})
			continue
		}
		if outcome.Queue != nil {
			if err := outcome.Queue.Dispatch(ctx); err != nil {
				var nested DispatchFailures
				if errors.As(err, &nested) {
					failures = append(failures, nested...)
				} else {
					return err
				}
			}
			kept = append(kept, node{queue: outcome.Queue})
			continue
		}
		kept = append(kept, node{entry: outcome.Entry})
	}
	q.nodes = kept

	if len(failures) > 0 {
		return failures
	}
	return nil
}

// Flatten replaces nested queues with their entries in place. Flattening an
// already flat queue is a no-op.
func (q *Queue) Flatten() {
	entries := q.Entries()
	q.nodes = make([]node, len(entries))
	for i, e := range entries {
		q.nodes[i] = node{entry: e}
	}
}

// Dedup removes duplicate entries, keeping first-seen order. Strict
// duplicates (same URI) are dropped outright. Loose duplicates (same
// normalized title key) are refreshed so both carry popularity, then the more
// popular one wins the first-seen slot. Refresh errors leave the entry's
// popularity unknown and the incumbent wins.
func (q *Queue) Dedup(ctx context.Context) {
	q.Flatten()

	kept := make([]node, 0, len(q.nodes))
next:
	for _, nd := range q.nodes {
		for i := range kept {
			incumbent := kept[i].entry
			if nd.entry.Equals(incumbent) {
				continue next
			}
			if nd.entry.SimilarTo(incumbent) {
				if incumbent.Popularity() < 0 {
					_ = incumbent.Refresh(ctx)
				}
				if nd.entry.Popularity() < 0 {
					_ = nd.entry.Refresh(ctx)
				}
				if nd.entry.Popularity() > incumbent.Popularity() {
					kept[i].entry = nd.entry
				}
				continue next
			}
		}
		kept = append(kept, nd)
	}
	q.nodes = kept
}

// Sort stably orders the flattened entries by the given comparator.
func (q *Queue) Sort(cmp rank.Comparator[Entry]) {
	q.Flatten()
	entries := q.Entries()
	rank.Sort(entries, cmp)
	q.replace(entries)
}

// Group reorders entries so equal values of the named property sit together.
// Groups appear in first-occurrence order and keep their internal order.
func (q *Queue) Group(property string) {
	q.Flatten()

	order := make([]string, 0)
	buckets := make(map[string][]Entry)
	for _, e := range q.Entries() {
		key := e.Property(property)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}

	merged := make([]Entry, 0, q.Len())
	for _, key := range order {
		merged = append(merged, buckets[key]...)
	}
	q.replace(merged)
}

// Alternate reorders entries round-robin across values of the named property,
// cycling through the groups in first-occurrence order.
func (q *Queue) Alternate(property string) {
	q.Flatten()

	order := make([]string, 0)
	buckets := make(map[string][]Entry)
	for _, e := range q.Entries() {
		key := e.Property(property)
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}

	runs := make([][]Entry, len(order))
	for i, key := range order {
		runs[i] = buckets[key]
	}
	q.replace(interleave(runs))
}

// Reverse flips the flattened entry order.
func (q *Queue) Reverse() {
	q.Flatten()
	for i, j := 0, len(q.nodes)-1; i < j; i, j = i+1, j-1 {
		q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
	}
}

// Shuffle randomizes the flattened entry order.
func (q *Queue) Shuffle() {
	q.Flatten()
	rand.Shuffle(len(q.nodes), func(i, j int) {
		q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
	})
}

// Limit truncates the queue to its first n entries. Non-positive n leaves the
// queue untouched.
func (q *Queue) Limit(n int) {
	if n <= 0 {
		return
	}
	q.Flatten()
	if len(q.nodes) > n {
		q.nodes = q.nodes[:n]
	}
}

func (q *Queue) replace(entries []Entry) {
	q.nodes = make([]node, len(entries))
	for i, e := range entries {
		q.nodes[i] = node{entry: e}
	}
}
