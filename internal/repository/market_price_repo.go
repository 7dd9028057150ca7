package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/kilimo_api/internal/models"
)

const priceColumns = `commodity, classification, grade, sex, market,
        wholesale, retail, supply_volume, county,
        to_char(price_date, 'YYYY-MM-DD') AS date`

// Empty product or market disables the respective filter. Matching is
// case-insensitive and exact.
const priceWhere = `WHERE ($1 = '' OR LOWER(commodity) = LOWER($1))
        AND ($2 = '' OR LOWER(market) = LOWER($2))`

// MarketPriceRepository handles data access for market price records.
type MarketPriceRepository struct {
	db *sqlx.DB
}

// NewMarketPriceRepository creates a new MarketPriceRepository.
func NewMarketPriceRepository(db *sqlx.DB) *MarketPriceRepository {
	return &MarketPriceRepository{db: db}
}

// GetPaged returns one page of entries matching product and market in
// insertion order, plus the total number of matches.
func (r *MarketPriceRepository) GetPaged(ctx context.Context, product, market string, limit, offset int) ([]models.MarketPriceEntry, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM market_prices `+priceWhere, product, market); err != nil {
		return nil, 0, err
	}

	entries := []models.MarketPriceEntry{}
	if offset >= total {
		return entries, total, nil
	}

	q := `SELECT ` + priceColumns + ` FROM market_prices ` + priceWhere + `
        ORDER BY id LIMIT $3 OFFSET $4`
	if err := r.db.SelectContext(ctx, &entries, q, product, market, limit, offset); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// GetFirst returns the first n entries in insertion order.
func (r *MarketPriceRepository) GetFirst(ctx context.Context, n int) ([]models.MarketPriceEntry, error) {
	entries := []models.MarketPriceEntry{}
	q := `SELECT ` + priceColumns + ` FROM market_prices ORDER BY id LIMIT $1`
	if err := r.db.SelectContext(ctx, &entries, q, n); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetCommodityNames returns the commodity catalogue in insertion order.
func (r *MarketPriceRepository) GetCommodityNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM commodities ORDER BY id`); err != nil {
		return nil, err
	}
	return names, nil
}

// GetMarketNames returns the market catalogue in insertion order.
func (r *MarketPriceRepository) GetMarketNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM markets ORDER BY id`); err != nil {
		return nil, err
	}
	return names, nil
}

// GetByCounty returns every entry recorded for county, compared trimmed and
// case-insensitively, in insertion order.
func (r *MarketPriceRepository) GetByCounty(ctx context.Context, county string) ([]models.MarketPriceEntry, error) {
	entries := []models.MarketPriceEntry{}
	q := `SELECT ` + priceColumns + ` FROM market_prices
        WHERE LOWER(TRIM(county)) = LOWER(TRIM($1))
        ORDER BY id`
	if err := r.db.SelectContext(ctx, &entries, q, county); err != nil {
		return nil, err
	}
	return entries, nil
}

// Ping checks database connectivity.
func (r *MarketPriceRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
