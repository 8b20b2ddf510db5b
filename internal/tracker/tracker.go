// Package tracker keeps the set of in-flight candidate request URLs that wait
// for response classification.
package tracker

import (
	"time"
)

// Options configure a Tracker.
type Options struct {
	// TTL is the maximum age of an entry before Sweep evicts it. Zero disables expiry.
	TTL time.Duration
	// MaxEntries bounds the set. Zero means unbounded.
	MaxEntries int
	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// Tracker is a bounded set of candidate URLs keyed by exact URL string.
// It is owned by a single event loop and is not safe for concurrent use.
type Tracker struct {
	options Options
	// entries maps a URL to the time it was marked.
	entries map[string]time.Time
}

// New creates an empty tracker.
func New(options Options) *Tracker {
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Tracker{
		options: options,
		entries: make(map[string]time.Time),
	}
}

// Mark inserts url. Marking an already tracked URL keeps its original
// timestamp. When the tracker is full, expired entries are swept first; if it
// is still full the URL is refused and Mark returns false.
func (t *Tracker) Mark(url string) bool {
	if _, ok := t.entries[url]; ok {
		return true
	}

	if t.options.MaxEntries > 0 && len(t.entries) >= t.options.MaxEntries {
		t.Sweep()
		if len(t.entries) >= t.options.MaxEntries {
			return false
		}
	}

	t.entries[url] = t.options.Now()

	return true
}

// Has reports whether url is an active candidate.
func (t *Tracker) Has(url string) bool {
	_, ok := t.entries[url]

	return ok
}

// Resolve removes url and reports whether it was present.
func (t *Tracker) Resolve(url string) bool {
	if _, ok := t.entries[url]; !ok {
		return false
	}
	delete(t.entries, url)

	return true
}

// Sweep evicts entries older than the TTL and returns how many were removed.
func (t *Tracker) Sweep() int {
	if t.options.TTL <= 0 {
		return 0
	}

	return t.EvictBefore(t.options.Now().Add(-t.options.TTL))
}

// EvictBefore removes every entry marked strictly before cutoff.
func (t *Tracker) EvictBefore(cutoff time.Time) int {
	n := 0
	for url, at := range t.entries {
		if at.Before(cutoff) {
			delete(t.entries, url)
			n++
		}
	}

	return n
}

// Len returns the number of active candidates.
func (t *Tracker) Len() int { return len(t.entries) }
