// Package registry holds the authoritative domain sets of a monitoring
// session: confirmed video hosts, confirmed audio hosts and ignore patterns.
//
// A Registry is owned by a single event loop and is not safe for concurrent
// use.
package registry

import (
	"slices"
	"strings"

	"mediatrace/pkg/domain"
)

type set map[string]struct{}

func (s set) add(v string) bool {
	if _, ok := s[v]; ok {
		return false
	}
	s[v] = struct{}{}

	return true
}

func (s set) has(v string) bool {
	_, ok := s[v]

	return ok
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)

	return out
}

// Registry tracks which hosts are confirmed video, confirmed audio or ignored.
// A host is never in both the video and audio sets.
type Registry struct {
	video set
	audio set
	// ignored holds substring patterns, not exact hosts.
	ignored []string
	// logged remembers hosts that already produced a console message this run.
	logged set
}

// New creates an empty registry using the given ignore patterns.
func New(ignored []string) *Registry {
	patterns := make([]string, 0, len(ignored))
	for _, p := range ignored {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}

	return &Registry{
		video:   set{},
		audio:   set{},
		ignored: patterns,
		logged:  set{},
	}
}

// Seed merges persisted state with the reference lists. Reference video hosts
// win over any persisted audio entry for the same host, so a corrupted state
// file can never demote a known-good domain.
func (r *Registry) Seed(persistedVideo, persistedAudio, referenceVideo []string) {
	for _, h := range persistedAudio {
		if h = clean(h); h != "" {
			r.audio.add(h)
		}
	}
	for _, h := range persistedVideo {
		if h = clean(h); h != "" && !r.audio.has(h) {
			r.video.add(h)
		}
	}
	for _, h := range referenceVideo {
		if h = clean(h); h != "" {
			delete(r.audio, h)
			r.video.add(h)
		}
	}
}

// Promote moves host into the set named by kind, removing it from the other
// set first. It reports whether the registry changed.
func (r *Registry) Promote(host string, kind domain.Kind) bool {
	host = clean(host)
	if host == "" {
		return false
	}

	switch kind {
	case domain.KindVideo:
		delete(r.audio, host)

		return r.video.add(host)
	case domain.KindAudio:
		delete(r.video, host)

		return r.audio.add(host)
	default:
		return false
	}
}

// IsVideo reports whether host is a confirmed video domain.
func (r *Registry) IsVideo(host string) bool { return r.video.has(host) }

// IsAudio reports whether host is a confirmed audio domain.
func (r *Registry) IsAudio(host string) bool { return r.audio.has(host) }

// IsIgnored reports whether host contains any ignore pattern.
func (r *Registry) IsIgnored(host string) bool {
	if host == "" {
		return false
	}
	for _, p := range r.ignored {
		if strings.Contains(host, p) {
			return true
		}
	}

	return false
}

// Snapshot returns the confirmed video domains in alphabetical order.
func (r *Registry) Snapshot() []string { return r.video.sorted() }

// AudioSnapshot returns the confirmed audio domains in alphabetical order.
func (r *Registry) AudioSnapshot() []string { return r.audio.sorted() }

// SnapshotOf returns the sorted domains of the given kind.
func (r *Registry) SnapshotOf(kind domain.Kind) []string {
	if kind == domain.KindAudio {
		return r.AudioSnapshot()
	}

	return r.Snapshot()
}

// Len returns the sizes of the video and audio sets.
func (r *Registry) Len() (video, audio int) { return len(r.video), len(r.audio) }

// FirstLog reports whether host has not been logged yet in this session and
// marks it as logged.
func (r *Registry) FirstLog(host string) bool { return r.logged.add(host) }

func clean(h string) string { return strings.TrimSpace(h) }
