package redis

import (
	"context"
	"strconv"

	"github.com/rxn4chemistry/rxn-availability/internal/domain/availability"
	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

// Catalog exposes a Redis compound catalog as an availability database.
//
// Offers are stored as a hash per compound under "<key_prefix><smiles>",
// one field per offer id with the price per amount as the value.  The value
// "NA" marks an offer without a usable price.
type Catalog struct {
	client *Client
	name   string
}

var _ availability.Database = (*Catalog)(nil)

// NewCatalog wraps an established client as the named catalog.
func NewCatalog(client *Client, name string) *Catalog {
	return &Catalog{client: client, name: name}
}

// Name implements availability.Database.
func (c *Catalog) Name() string { return c.name }

// Offers implements availability.Database.
func (c *Catalog) Offers(ctx context.Context, smiles string) ([]availability.Offer, error) {
	c.client.mu.RLock()
	if c.client.closed {
		c.client.mu.RUnlock()
		return nil, ErrClientClosed
	}
	rdb := c.client.rdb
	c.client.mu.RUnlock()

	values, err := rdb.HVals(ctx, c.client.config.KeyPrefix+smiles).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "redis catalog lookup failed").
			WithDetail("catalog=" + c.name)
	}

	offers := make([]availability.Offer, 0, len(values))
	for _, v := range values {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			offers = append(offers, availability.Offer{})
			continue
		}
		offers = append(offers, availability.Offer{Price: price, Priced: true})
	}
	return offers, nil
}
