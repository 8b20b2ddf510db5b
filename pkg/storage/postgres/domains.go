package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"mediatrace/pkg/domain"
	"mediatrace/pkg/storage"
)

const (
	domainsTable = "domains"
)

// domainList is the storage.DomainStore of one kind.
type domainList struct {
	pg   *PgSQL
	kind domain.Kind
}

// Load implements storage.DomainStore.
func (l *domainList) Load(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := l.pg.Builder.From(domainsTable).
		Select("domain").
		Where(goqu.C("kind").Eq(string(l.kind))).
		Order(goqu.C("domain").Asc()).
		Executor().ScanValsContext(ctx, &out); err != nil {
		return nil, fmt.Errorf("could not load %s domains from pg: %w", l.kind, err)
	}

	return out, nil
}

// Save implements storage.DomainStore. Rows not in domains are deleted and
// missing rows inserted in one transaction; existing rows keep their
// created_at.
func (l *domainList) Save(ctx context.Context, domains []string) error {
	domains = storage.Normalize(domains)

	return l.pg.WithTx(ctx, func(tx *PgSQL) error {
		del := tx.Builder.Delete(domainsTable).Where(goqu.C("kind").Eq(string(l.kind)))
		if len(domains) > 0 {
			del = del.Where(goqu.C("domain").NotIn(domains))
		}
		if _, err := del.Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("could not delete stale %s domains: %w", l.kind, err)
		}

		if len(domains) == 0 {
			return nil
		}

		rows := make([]PgDomain, len(domains))
		for i, d := range domains {
			rows[i] = PgDomain{Domain: d, Kind: string(l.kind)}
		}
		if _, err := tx.Builder.Insert(domainsTable).
			Rows(rows).
			OnConflict(goqu.DoNothing()).
			Executor().ExecContext(ctx); err != nil {
			return fmt.Errorf("could not store %s domains into pg: %w", l.kind, err)
		}

		return nil
	})
}
