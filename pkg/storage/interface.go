// Package storage defines how learned domain lists are persisted between
// sessions. A list is an unordered set of host names; backends (a JSON file,
// PostgreSQL) load and replace it as a whole.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"

	"mediatrace/pkg/domain"
)

// DomainStore loads and saves one domain list.
type DomainStore interface {
	// Load returns the stored domains. A missing list is not an error and
	// yields an empty slice.
	Load(ctx context.Context) ([]string, error)
	// Save replaces the stored list with domains. Duplicates are collapsed.
	Save(ctx context.Context, domains []string) error
}

// Storage hands out the domain list of each registry kind and owns the
// resources behind them.
type Storage interface {
	// Domains returns the store of the given kind, or nil when that kind is
	// not persisted.
	Domains(kind domain.Kind) DomainStore
	// Close releases any resources held by the storage implementation.
	Close() error
}
