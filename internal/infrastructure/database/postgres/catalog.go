package postgres

import (
	"context"
	"strconv"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/availability"
	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

// Catalog exposes the compound_offers table as an availability database.
// The price_per_amount column is text; the value "NA" marks an offer without
// a usable price.
type Catalog struct {
	conn *Connection
	name string
}

var _ availability.Database = (*Catalog)(nil)

// NewCatalog wraps an established connection as the named catalog.
func NewCatalog(conn *Connection, name string) *Catalog {
	return &Catalog{conn: conn, name: name}
}

// Name implements availability.Database.
func (c *Catalog) Name() string { return c.name }

// Offers implements availability.Database.
func (c *Catalog) Offers(ctx context.Context, smiles string) ([]availability.Offer, error) {
	rows, err := c.conn.pool.Query(ctx,
		`SELECT price_per_amount FROM compound_offers WHERE smiles = $1`, smiles)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres catalog lookup failed").
			WithDetail("catalog=" + c.name)
	}
	defer rows.Close()

	var offers []availability.Offer
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres catalog scan failed").
				WithDetail("catalog=" + c.name)
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			offers = append(offers, availability.Offer{})
			continue
		}
		offers = append(offers, availability.Offer{Price: price, Priced: true})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres catalog iteration failed").
			WithDetail("catalog=" + c.name)
	}
	return offers, nil
}
