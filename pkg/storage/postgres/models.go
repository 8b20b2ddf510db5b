package postgres

import (
	"time"
)

// PgDomain is a row of the domains table.
type PgDomain struct {
	Domain    string    `db:"domain"`
	Kind      string    `db:"kind"`
	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}
