package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const propertiesSchema = `
CREATE TABLE IF NOT EXISTS properties (
	id             TEXT PRIMARY KEY,
	type           TEXT,
	address        TEXT,
	neighborhood   TEXT,
	city           TEXT,
	region         TEXT,
	latitude       DOUBLE PRECISION,
	longitude      DOUBLE PRECISION,
	geohash        TEXT,
	area           DOUBLE PRECISION,
	bedrooms       INTEGER,
	bathrooms      INTEGER,
	parking_spots  INTEGER,
	rent_price     DOUBLE PRECISION,
	total_cost     DOUBLE PRECISION,
	sale_price     DOUBLE PRECISION,
	condo          DOUBLE PRECISION,
	iptu           DOUBLE PRECISION,
	for_rent       BOOLEAN,
	for_sale       BOOLEAN,
	photos         TEXT[],
	source         TEXT,
	scraped_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS properties_geohash_idx ON properties (geohash);
CREATE INDEX IF NOT EXISTS properties_city_idx ON properties (city);`

// PostgresSink persist normalized records in a properties table, upserting
// on the listing ID so re-runs against the failed set are idempotent.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connect to the database and ensure the schema exists
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("sink: cannot open postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("sink: cannot ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, propertiesSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("sink: cannot ensure schema: %w", err)
	}

	return &PostgresSink{pool: pool}, nil
}

// Ingest upsert one property record
func (s *PostgresSink) Ingest(ctx context.Context, p *Property) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO properties (
			id, type, address, neighborhood, city, region,
			latitude, longitude, geohash, area, bedrooms, bathrooms,
			parking_spots, rent_price, total_cost, sale_price, condo, iptu,
			for_rent, for_sale, photos, source, scraped_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, now()
		)
		ON CONFLICT (id) DO UPDATE SET
			rent_price = EXCLUDED.rent_price,
			total_cost = EXCLUDED.total_cost,
			sale_price = EXCLUDED.sale_price,
			condo      = EXCLUDED.condo,
			iptu       = EXCLUDED.iptu,
			for_rent   = EXCLUDED.for_rent,
			for_sale   = EXCLUDED.for_sale,
			photos     = EXCLUDED.photos,
			scraped_at = now()`,
		p.ID, p.Type, p.Address, p.Neighborhood, p.City, p.Region,
		p.Latitude, p.Longitude, p.Geohash, p.Area, p.Bedrooms, p.Bathrooms,
		p.ParkingSpots, p.RentPrice, p.TotalCost, p.SalePrice, p.Condo, p.IPTU,
		p.ForRent, p.ForSale, p.Photos, p.Source)
	if err != nil {
		return fmt.Errorf("sink: cannot upsert property %s: %w", p.ID, err)
	}

	return nil
}

// Close release the connection pool
func (s *PostgresSink) Close() {
	s.pool.Close()
}
